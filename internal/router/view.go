// Package router maps request paths to the portal's views and decides,
// from the path and the restored session alone, which view is shown.
package router

import (
	"net/http"
	"strings"
)

type View int

const (
	Unknown View = iota
	Home
	Contact
	Login
	Upload
	OwnersArea
	ResidentDirectory
	AddUser
)

var names = map[View]string{
	Home:              "home",
	Contact:           "contact",
	Login:             "login",
	Upload:            "upload",
	OwnersArea:        "owners-area",
	ResidentDirectory: "resident-directory",
	AddUser:           "add-user",
}

var byName = func() map[string]View {
	m := make(map[string]View, len(names))
	for v, n := range names {
		m[n] = v
	}
	return m
}()

func (v View) String() string {
	if n, ok := names[v]; ok {
		return n
	}
	return "unknown"
}

// ParseView maps a URL path to a view. The root path is home; anything
// outside the known set is Unknown.
func ParseView(path string) View {
	p := strings.Trim(path, "/")
	if p == "" {
		return Home
	}
	if v, ok := byName[p]; ok {
		return v
	}
	return Unknown
}

// Path is the address bar location of v.
func Path(v View) string {
	if v == Home || v == Unknown {
		return "/"
	}
	return "/" + v.String()
}

// Navigate moves the browser to v with a See Other redirect. The session
// cookie is left as is.
func Navigate(w http.ResponseWriter, r *http.Request, v View) {
	http.Redirect(w, r, Path(v), http.StatusSeeOther)
}
