package core

// inject applies every matching registry capability to t and returns how many
// ran to completion. Tags are visited in registry order: GlobalTag always
// matches, any other tag only when t declares it under PluginsMember.
func (e *Engine) inject(t *Template) int {
	applied := 0
	for _, c := range e.registry.matching(t.Plugins()) {
		if e.applyCapability(t, c) {
			applied++
		}
	}
	return applied
}

func (e *Engine) applyCapability(t *Template, c namedCapability) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("capability panicked", "tag", c.tag, "name", c.name, "panic", r)
			ok = false
		}
	}()
	c.fn(t)
	e.logger.Debug("capability applied", "tag", c.tag, "name", c.name)
	return true
}
