// Package form holds the validation state of user-editable text fields.
//
// A Field never shows an error before the user has interacted with it: the
// errors-visible flag can only be raised once the field has been focused at
// least once. Hosts drive a Field through SetValue and SetFocused and read
// the derived IsValid, ShouldShowError and ErrorMessage values when rendering.
package form

// Validator reports whether a field value is acceptable.
type Validator func(value string) bool

// ErrorFor returns the message describing why a value is invalid.
type ErrorFor func(value string) string

// Field tracks one text input together with its validation state.
//
// A Field is not safe for concurrent use. It is owned by the screen that
// created it and must only be mutated from that screen's context.
type Field struct {
	value            string
	everFocused      bool
	currentlyFocused bool
	errorsVisible    bool

	validator Validator
	errorFor  ErrorFor
	listeners []func(*Field)
}

// NewField creates a field holding initial. A nil validator accepts every
// value and a nil errorFor yields an empty message.
func NewField(initial string, validator Validator, errorFor ErrorFor) *Field {
	if validator == nil {
		validator = func(string) bool { return true }
	}
	if errorFor == nil {
		errorFor = func(string) string { return "" }
	}
	return &Field{
		value:     initial,
		validator: validator,
		errorFor:  errorFor,
	}
}

// Value returns the current text.
func (f *Field) Value() string { return f.value }

// EverFocused reports whether the field has received focus at least once.
func (f *Field) EverFocused() bool { return f.everFocused }

// Focused reports whether the field currently holds focus.
func (f *Field) Focused() bool { return f.currentlyFocused }

// ErrorsVisible reports whether errors are currently eligible for display.
func (f *Field) ErrorsVisible() bool { return f.errorsVisible }

// SetValue replaces the text. A non-empty value makes errors eligible for
// display, an empty one suppresses them. Re-setting an already empty field is
// not an edit, so errors revealed by a blur stay visible. Listeners are
// notified only when the value or the visibility changed.
func (f *Field) SetValue(value string) {
	changed := value != f.value
	visible := f.errorsVisible
	f.value = value
	switch {
	case value != "":
		f.enableShowErrors()
	case changed:
		f.disableErrors()
	}
	if changed || visible != f.errorsVisible {
		f.notify()
	}
}

// SetFocused records a focus transition. Gaining focus latches EverFocused
// permanently. Losing focus reveals the field's errors.
func (f *Field) SetFocused(focused bool) {
	wasFocused := f.currentlyFocused
	f.currentlyFocused = focused
	if focused {
		f.everFocused = true
	} else if wasFocused {
		f.enableShowErrors()
	}
	f.notify()
}

// EnableShowErrors makes errors eligible for display. It is a no-op until the
// field has been focused once.
func (f *Field) EnableShowErrors() {
	f.enableShowErrors()
	f.notify()
}

// DisableErrors hides errors. Like EnableShowErrors it only applies once the
// field has been focused.
func (f *Field) DisableErrors() {
	f.disableErrors()
	f.notify()
}

func (f *Field) enableShowErrors() {
	if f.everFocused {
		f.errorsVisible = true
	}
}

func (f *Field) disableErrors() {
	if f.everFocused {
		f.errorsVisible = false
	}
}

// IsValid applies the field's validator to the current value.
func (f *Field) IsValid() bool {
	return f.validator(f.value)
}

// ShouldShowError reports whether the host should render the field as invalid.
func (f *Field) ShouldShowError() bool {
	return !f.IsValid() && f.errorsVisible
}

// ErrorMessage returns the message to display, if any.
func (f *Field) ErrorMessage() (string, bool) {
	if !f.ShouldShowError() {
		return "", false
	}
	return f.errorFor(f.value), true
}

// OnChange registers fn to be called after every mutation of the field.
func (f *Field) OnChange(fn func(*Field)) {
	f.listeners = append(f.listeners, fn)
}

func (f *Field) notify() {
	for _, fn := range f.listeners {
		fn(f)
	}
}

// Snapshot is the minimal state needed to restore a field after its hosting
// screen is suspended.
type Snapshot struct {
	Value       string `json:"value"`
	EverFocused bool   `json:"ever_focused"`
}

// Snapshot captures the field's persistent state.
func (f *Field) Snapshot() Snapshot {
	return Snapshot{Value: f.value, EverFocused: f.everFocused}
}

// Restore reinstates a snapshot. Focus and error visibility are transient and
// start out cleared.
func (f *Field) Restore(s Snapshot) {
	f.value = s.Value
	f.everFocused = s.EverFocused
	f.currentlyFocused = false
	f.errorsVisible = false
	f.notify()
}
