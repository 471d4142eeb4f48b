package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/eventreg/internal/model"
	"github.com/Shivanand-hulikatti/eventreg/internal/security"
)

// View is everything a page needs: its name, the signed-in user, pending
// notices and page data.
type View struct {
	Name    string           `json:"view"`
	User    *model.User      `json:"user"`
	Flashes []security.Flash `json:"flashes"`
	Data    any              `json:"data"`
}

// Renderer writes a View to the response. HTML front ends plug in here.
type Renderer interface {
	Render(w http.ResponseWriter, status int, v View) error
}

// JSONRenderer writes the view as a JSON document.
type JSONRenderer struct{}

// Render implements Renderer.
func (JSONRenderer) Render(w http.ResponseWriter, status int, v View) error {
	if v.Flashes == nil {
		v.Flashes = []security.Flash{}
	}
	return writeJSON(w, status, v)
}
