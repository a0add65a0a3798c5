// Package deps verifies that the external programs a run needs are on PATH.
package deps

import (
	"gdtranslate/pkg/errors"
	"gdtranslate/pkg/session"
)

// Requirement is an external binary and the package that ships it.
type Requirement struct {
	Binary  string
	Package string
}

// Clipboard tools per display protocol.
var (
	WaylandPaste = Requirement{Binary: "wl-paste", Package: "wl-clipboard"}
	X11Clip      = Requirement{Binary: "xclip", Package: "xclip"}
)

// Status is the lookup result for one requirement.
type Status struct {
	Requirement
	Path  string
	Found bool
}

// LookPathFunc resolves a binary name on PATH.
type LookPathFunc func(name string) (string, error)

type Checker struct {
	dictionary Requirement
	lookPath   LookPathFunc
}

// NewChecker builds a Checker for the given dictionary binary. The install
// hint for the dictionary is the binary name itself.
func NewChecker(dictionary string, lookPath LookPathFunc) *Checker {
	return &Checker{
		dictionary: Requirement{Binary: dictionary, Package: dictionary},
		lookPath:   lookPath,
	}
}

// Required lists what a run needs for the given protocol, dictionary first.
// Unknown sessions get only the dictionary.
func (c *Checker) Required(p session.Protocol) []Requirement {
	reqs := []Requirement{c.dictionary}
	switch p {
	case session.Wayland:
		reqs = append(reqs, WaylandPaste)
	case session.X11:
		reqs = append(reqs, X11Clip)
	}
	return reqs
}

// Check returns nil when everything needed for p is installed. The dictionary
// is checked before the session, so a missing dictionary is reported even in
// an unknown session.
func (c *Checker) Check(p session.Protocol) error {
	if !c.found(c.dictionary) {
		return errors.DependencyError(c.dictionary.Binary, c.dictionary.Package)
	}

	switch p {
	case session.Wayland:
		if !c.found(WaylandPaste) {
			return errors.DependencyError(WaylandPaste.Binary, WaylandPaste.Package)
		}
	case session.X11:
		if !c.found(X11Clip) {
			return errors.DependencyError(X11Clip.Binary, X11Clip.Package)
		}
	default:
		return errors.EnvironmentError()
	}

	return nil
}

// Report looks up every requirement of p without stopping at the first miss.
func (c *Checker) Report(p session.Protocol) []Status {
	reqs := c.Required(p)
	statuses := make([]Status, 0, len(reqs))
	for _, r := range reqs {
		path, err := c.lookPath(r.Binary)
		statuses = append(statuses, Status{Requirement: r, Path: path, Found: err == nil})
	}
	return statuses
}

func (c *Checker) found(r Requirement) bool {
	_, err := c.lookPath(r.Binary)
	return err == nil
}
