/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package roster is the static directory of invited users.
package roster

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleParticipant Role = "participant"
)

var (
	ErrUnknownUser = errors.New("unknown user")
	ErrBadPassword = errors.New("incorrect password")
)

type User struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email,omitempty" yaml:"email"`
	Role     Role   `json:"role" yaml:"role"`
	Location string `json:"location" yaml:"location"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) FirstName() string {
	first, _, _ := strings.Cut(strings.TrimSpace(u.Name), " ")
	return first
}

// Directory resolves user ids. It is read-only after construction.
type Directory struct {
	users         map[string]User
	order         []string
	adminPassword string
}

func New(adminPassword string, users ...User) *Directory {
	d := &Directory{
		users:         make(map[string]User, len(users)),
		adminPassword: adminPassword,
	}
	for _, u := range users {
		if u.ID == "" {
			continue
		}
		if u.Role == "" {
			u.Role = RoleParticipant
		}
		if _, dup := d.users[u.ID]; !dup {
			d.order = append(d.order, u.ID)
		}
		d.users[u.ID] = u
	}
	return d
}

// Load reads a roster file: a list of users in YAML (.yaml, .yml) or JSON.
func Load(fsys afero.Fs, path, adminPassword string) (*Directory, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}

	var users []User
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &users)
	default:
		err = json.Unmarshal(data, &users)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing roster %s: %w", path, err)
	}

	return New(adminPassword, users...), nil
}

func (d *Directory) Lookup(id string) (User, bool) {
	u, ok := d.users[id]
	return u, ok
}

func (d *Directory) Users() []User {
	out := make([]User, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.users[id])
	}
	return out
}

func (d *Directory) Len() int {
	return len(d.users)
}

// Authenticate checks the shared party password for admins and the
// user's own first name for everyone else, both case-insensitively.
func (d *Directory) Authenticate(id, password string) (User, error) {
	u, ok := d.users[id]
	if !ok {
		return User{}, ErrUnknownUser
	}

	want := u.FirstName()
	if u.IsAdmin() {
		want = d.adminPassword
	}

	if want == "" || password == "" {
		return User{}, ErrBadPassword
	}
	if subtle.ConstantTimeCompare([]byte(strings.ToLower(password)), []byte(strings.ToLower(want))) != 1 {
		return User{}, ErrBadPassword
	}

	return u, nil
}
