package viewer

import "fmt"

// Action is a named object-level verb, the vocabulary external event
// sources (pickers, consoles, remote controls) use to drive the viewer
// without linking against its full API.
type Action string

const (
	ActionHide        Action = "hide"
	ActionUnhide      Action = "unhide"
	ActionPin         Action = "pin"
	ActionUnpin       Action = "unpin"
	ActionHighlight   Action = "highlight"
	ActionUnhighlight Action = "unhighlight"
	ActionSelect      Action = "select"
	ActionRemove      Action = "remove"
)

// Apply dispatches an action against one object. Unknown actions are an
// error; an unknown object id follows the usual warn-and-continue rule
// of the underlying operation.
func (v *Viewer) Apply(a Action, id string) error {
	switch a {
	case ActionHide:
		v.Hide(id)
	case ActionUnhide:
		v.Unhide(id)
	case ActionPin:
		v.Pin(id)
	case ActionUnpin:
		v.Unpin(id)
	case ActionHighlight:
		v.Highlight(DefaultHighlight, id)
	case ActionUnhighlight:
		v.Unhighlight(id)
	case ActionSelect:
		v.Select(id)
	case ActionRemove:
		v.Remove(id)
	default:
		return fmt.Errorf("viewer: unknown action %q", a)
	}
	return nil
}
