package module

// Base provides common plumbing for modules.
type Base struct {
	info Info
}

// NewBase seeds the helper with module info.
func NewBase(info Info) Base {
	return Base{info: info}
}

// Info implements Module.Info.
func (b *Base) Info() Info {
	return b.info
}

// Applies implements Module.Applies; modules apply to every profile unless
// they override it.
func (b *Base) Applies(Selection) bool {
	return true
}
