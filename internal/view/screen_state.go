package view

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	screenSessionName = "screen-session"
	screenKeyID       = "screen_id"
	screenKeyState    = "screen_state"
)

// ErrNoScreenState is returned when the session holds no saved screen state.
var ErrNoScreenState = errors.New("no saved screen state")

// ScreenID returns the id of the client's login screen, assigning a new one
// on first use.
func ScreenID(c echo.Context) (string, error) {
	sess, err := session.Get(screenSessionName, c)
	if err != nil {
		return "", err
	}
	if id, ok := sess.Values[screenKeyID].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	sess.Values[screenKeyID] = id
	sess.Options.HttpOnly = true
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return "", err
	}
	return id, nil
}

// SaveScreenState stores v as JSON in the client's screen session.
func SaveScreenState(c echo.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	sess, err := session.Get(screenSessionName, c)
	if err != nil {
		return err
	}
	sess.Values[screenKeyState] = string(data)
	return sess.Save(c.Request(), c.Response())
}

// LoadScreenState decodes state saved by SaveScreenState into v.
func LoadScreenState(c echo.Context, v any) error {
	sess, err := session.Get(screenSessionName, c)
	if err != nil {
		return err
	}
	raw, ok := sess.Values[screenKeyState].(string)
	if !ok || raw == "" {
		return ErrNoScreenState
	}
	return json.Unmarshal([]byte(raw), v)
}
