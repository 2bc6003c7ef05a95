package models

import "fmt"

// EditorState is the per-cell inline editor state served to UI clients.
type EditorState string

const (
	EditorDisplaying EditorState = "displaying"
	EditorEditing    EditorState = "editing"
	EditorSaving     EditorState = "saving"
)

// EditorEvent is a UI event driving the editor state machine.
type EditorEvent string

const (
	EventClick      EditorEvent = "click"
	EventSave       EditorEvent = "save"
	EventSaved      EditorEvent = "saved"
	EventSaveFailed EditorEvent = "save_failed"
	EventCancel     EditorEvent = "cancel"
)

// EditorTransition applies an event to a state. Undefined transitions return
// an error and leave the state unchanged.
func EditorTransition(state EditorState, event EditorEvent) (EditorState, error) {
	switch state {
	case EditorDisplaying:
		if event == EventClick {
			return EditorEditing, nil
		}
	case EditorEditing:
		switch event {
		case EventSave:
			return EditorSaving, nil
		case EventCancel:
			return EditorDisplaying, nil
		}
	case EditorSaving:
		switch event {
		case EventSaved:
			return EditorDisplaying, nil
		case EventSaveFailed:
			return EditorEditing, nil
		}
	}
	return state, fmt.Errorf("editor: no transition for %s in state %s", event, state)
}
