// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package guard

import (
	"github.com/jeranaias/textguard/internal/native"
	"github.com/jeranaias/textguard/internal/util"
)

// proxy occupies the native delegate slot on behalf of a wrapper.
type proxy struct {
	c *core
}

var _ native.Interposer = (*proxy)(nil)

func (p *proxy) ShouldChange(_ *native.Control, r util.Range, replacement string) bool {
	return p.c.shouldChange(r, replacement)
}

func (p *proxy) DidChange(*native.Control) {
	p.c.didChange()
}

func (p *proxy) DidBeginEditing(*native.Control) {
	p.c.notify(func(o *Observer) {
		if o.DidBeginEditing != nil {
			o.DidBeginEditing(p.c.owner)
		}
	})
}

func (p *proxy) DidEndEditing(*native.Control) {
	p.c.notify(func(o *Observer) {
		if o.DidEndEditing != nil {
			o.DidEndEditing(p.c.owner)
		}
	})
}

func (p *proxy) DidScroll(_ *native.Control, offset int) {
	p.c.notify(func(o *Observer) {
		if o.DidScroll != nil {
			o.DidScroll(p.c.owner, offset)
		}
	})
}

// Adopt keeps d as a secondary observer. nil drops the adopted delegate.
func (p *proxy) Adopt(d native.Delegate) {
	if d == nil {
		p.c.binding.adopted = nil
		return
	}
	p.c.binding.adopted = adapt(p.c.ctl, d)
}
