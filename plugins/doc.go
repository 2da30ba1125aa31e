// Package plugins hosts capability plugin subpackages. It contains no runtime
// code itself; the architecture guard that keeps plugins on the public koi
// surface lives alongside it.
package plugins
