package router

import "github.com/ghaggin/pelicanpoint/internal/model"

// Requirement is what a session needs to see a view.
type Requirement struct {
	Auth       bool
	Capability model.Capability
}

var requirements = map[View]Requirement{
	Upload:            {Auth: true, Capability: model.CapUploadDocuments},
	OwnersArea:        {Auth: true, Capability: model.CapViewDocuments},
	ResidentDirectory: {Auth: true, Capability: model.CapViewDirectory},
	AddUser:           {Auth: true, Capability: model.CapManageUsers},
}

func RequirementOf(v View) Requirement {
	return requirements[v]
}

// Resolution is the outcome of routing one request.
type Resolution struct {
	Requested View
	Rendered  View
	// Denied is set when the session is signed in but lacks the
	// capability of Rendered. The view renders its access denied shell.
	Denied bool
}

// Resolve decides which view a session sees for a requested view. It
// depends on nothing but its arguments.
func Resolve(v View, s model.Session) Resolution {
	res := Resolution{Requested: v, Rendered: v}

	switch {
	case v == Unknown:
		res.Rendered = Home
		return res
	case v == Login && s.Authenticated():
		res.Rendered = Home
		return res
	}

	req := RequirementOf(v)
	if req.Auth && !s.Authenticated() {
		res.Rendered = Login
		return res
	}
	if req.Capability != 0 && !s.Role.Can(req.Capability) {
		res.Denied = true
	}
	return res
}
