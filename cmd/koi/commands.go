package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"koi/internal/templatefile"
	"koi/pkg/koi"
	"koi/pkg/state"
	"koi/plugins/player"
)

func characterFactory(a *app) *koi.Factory {
	return a.engine.Define(koi.NewTemplate(koi.Members{
		koi.PluginsMember: []string{player.Tag},
		koi.InitMember: koi.Method(func(_ context.Context, self *koi.Instance, args ...any) (any, error) {
			if len(args) > 0 {
				self.Set("name", args[0])
			}
			return nil, nil
		}),
	}))
}

func newCharactersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "characters [name...]",
		Short: "Define player characters and a derived hero",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			out := cmd.OutOrStdout()
			character := characterFactory(a)
			hero, err := a.engine.Extend(ctx, character, koi.Members{"weapon": "sword", "title": "champion"})
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"Ayla"}
			}
			for _, name := range args {
				c, err := character.New(ctx, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "character %s\n", name)
				printMembers(out, "  ", c)
			}
			h, err := hero.New(ctx, "Hero")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "hero")
			printMembers(out, "  ", h)
			blank, err := hero.New(ctx, koi.IgnoreInit)
			if err != nil {
				return err
			}
			name, _ := blank.Get("name")
			fmt.Fprintf(out, "hero without init: name=%v\n", name)
			return nil
		},
	}
}

func newHooksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hooks [color]",
		Short: "Run a method with and without scoped hooks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			out := cmd.OutOrStdout()
			color := joinArgs(args, "red")
			paint, err := a.engine.Define(koi.NewTemplate(koi.Members{
				"paint": koi.Method(func(ctx context.Context, self *koi.Instance, args ...any) (any, error) {
					c, err := self.HookOr(ctx, "color", args[0], args[0])
					if err != nil {
						return nil, err
					}
					return self.HookOr(ctx, "finish", c, c)
				}),
			})).New(ctx)
			if err != nil {
				return err
			}
			method, _ := paint.Method("paint")
			upper := koi.HookFunc(func(_ context.Context, _ *koi.Instance, args ...any) (any, error) {
				return strings.ToUpper(fmt.Sprint(args[0])), nil
			})
			gloss := koi.HookFunc(func(_ context.Context, _ *koi.Instance, args ...any) (any, error) {
				return fmt.Sprintf("%v (gloss)", args[0]), nil
			})

			plain, err := paint.Call(ctx, "paint", color)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "plain: %v\n", plain)
			res := a.engine.InvokeWithHooks(ctx, koi.HookSet{"color": upper}, paint, method, color)
			if res.Err != nil {
				return res.Err
			}
			fmt.Fprintf(out, "hooked: %v\n", res.Value)
			res, err = a.engine.Hook(koi.HookSet{"color": upper, "finish": gloss}).To(paint).Run(ctx, method, color)
			if err != nil {
				return err
			}
			if res.Err != nil {
				return res.Err
			}
			fmt.Fprintf(out, "builder: %v\n", res.Value)
			after, err := paint.Call(ctx, "paint", color)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "after: %v\n", after)
			return nil
		},
	}
}

func newChainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chain",
		Short: "Extend three levels deep and run each init through the parent chain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)
			out := cmd.OutOrStdout()
			level := func(name string, callParent bool) koi.Method {
				return func(ctx context.Context, self *koi.Instance, _ ...any) (any, error) {
					if callParent {
						if _, err := self.Super(ctx).Call(ctx, self, koi.InitMember); err != nil {
							return nil, err
						}
					}
					fmt.Fprintf(out, "init %s\n", name)
					self.Set(name, true)
					return nil, nil
				}
			}
			base := a.engine.Define(koi.NewTemplate(koi.Members{koi.InitMember: level("base", false)}))
			mid, err := a.engine.Extend(ctx, base, koi.Members{koi.InitMember: level("mid", true)})
			if err != nil {
				return err
			}
			top, err := a.engine.Extend(ctx, mid, koi.Members{koi.InitMember: level("top", true)})
			if err != nil {
				return err
			}
			inst, err := top.New(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "parent depth %d\n", inst.Parent().Depth())
			printMembers(out, "  ", inst)
			return nil
		},
	}
}

type screen struct {
	name  string
	trail []string
}

func newStateCmd(*app) *cobra.Command {
	var disabled []string
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Walk a screen state machine forward and back",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)
			out := cmd.OutOrStdout()
			enter := func(name string) state.Handler[*screen] {
				return func(_ context.Context, s *screen, _ ...any) error {
					s.name = name
					s.trail = append(s.trail, name)
					return nil
				}
			}
			target := &screen{}
			order := []string{"intro", "menu", "play", "over"}
			handlers := make(map[string]state.Handler[*screen], len(order))
			for _, name := range order {
				handlers[name] = enter(name)
			}
			m := state.New(target, handlers)
			m.Order(order...)
			for _, name := range disabled {
				m.Disable(name)
			}
			for {
				ok, err := m.Next(ctx)
				if err != nil {
					return err
				}
				if !ok {
					break
				}
			}
			for {
				ok, err := m.Previous(ctx)
				if err != nil {
					return err
				}
				if !ok {
					break
				}
			}
			fmt.Fprintf(out, "trail: %s\n", strings.Join(target.trail, " > "))
			fmt.Fprintf(out, "state: %s (%s)\n", m.State(), m.Direction())
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&disabled, "disable", nil, "States to skip")
	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <template.yaml>",
		Short: "Load a YAML template, define it and print an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := templatefile.LoadFile(args[0])
			if err != nil {
				return err
			}
			inst, err := a.engine.Define(tpl).New(contextOf(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "plugins: %s\n", strings.Join(tpl.Plugins(), ","))
			printMembers(out, "  ", inst)
			return nil
		},
	}
}
