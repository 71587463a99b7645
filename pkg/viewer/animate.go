package viewer

import "log"

// ErrorPolicy decides what happens to an animation callback that
// returns an error.
type ErrorPolicy int

const (
	// PolicyRemove logs the error and drops the callback.
	PolicyRemove ErrorPolicy = iota
	// PolicyIgnore logs the error and keeps the callback.
	PolicyIgnore
	// PolicyRaise aborts the frame and propagates the error.
	PolicyRaise
)

// Animation is a per-frame callback registered with the viewer.
type Animation struct {
	fn     func() error
	policy ErrorPolicy
}

// AddAnimation registers fn to run every frame under the given error
// policy and returns a handle for later removal.
func (v *Viewer) AddAnimation(fn func() error, policy ErrorPolicy) *Animation {
	a := &Animation{fn: fn, policy: policy}
	v.animations = append(v.animations, a)
	return a
}

// RemoveAnimation flags a callback for removal. The callback list is
// never pruned mid-frame: removal from within a running callback takes
// effect after the current frame's iteration completes.
func (v *Viewer) RemoveAnimation(a *Animation) {
	v.flagged = append(v.flagged, a)
}

// Animate runs one frame of callbacks in registration order and then
// prunes everything flagged for removal, whether flagged by a callback,
// by RemoveAnimation or by the remove-on-error policy. A PolicyRaise
// error aborts the iteration and is returned; pruning still happens.
func (v *Viewer) Animate() (err error) {
	defer v.prune()
	for _, a := range append([]*Animation(nil), v.animations...) {
		cbErr := a.fn()
		if cbErr == nil {
			continue
		}
		switch a.policy {
		case PolicyRemove:
			log.Printf("viewer: animation failed, removing: %v", cbErr)
			v.flagged = append(v.flagged, a)
		case PolicyIgnore:
			log.Printf("viewer: animation failed: %v", cbErr)
		case PolicyRaise:
			return cbErr
		}
	}
	return nil
}

// Animations returns the number of live callbacks.
func (v *Viewer) Animations() int { return len(v.animations) }

func (v *Viewer) prune() {
	if len(v.flagged) == 0 {
		return
	}
	kept := v.animations[:0]
	for _, a := range v.animations {
		doomed := false
		for _, f := range v.flagged {
			if f == a {
				doomed = true
				break
			}
		}
		if !doomed {
			kept = append(kept, a)
		}
	}
	v.animations = kept
	v.flagged = nil
}
