package security

import "axeberg-kernel/ids"

// User is a single entry in the user database, analogous to an
// /etc/passwd + /etc/shadow record.
type User struct {
	Name         string
	Uid          ids.Uid
	Gid          ids.Gid // primary group
	Gecos        string  // full name / comment field
	Home         string
	Shell        string
	PasswordHash *string // nil = no password, allows passwordless login
}

// NewUser builds a User with the teacher's conventional defaults: home
// directory "/home/<name>" and shell "/bin/sh".
func NewUser(name string, uid ids.Uid, gid ids.Gid) *User {
	return &User{
		Name:  name,
		Uid:   uid,
		Gid:   gid,
		Home:  "/home/" + name,
		Shell: "/bin/sh",
	}
}

// CheckPassword reports whether password matches the account. An account
// with no password set accepts any password.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == nil {
		return true
	}
	return VerifyPassword(password, *u.PasswordHash)
}

// SetPassword hashes password with a fresh random salt and stores it.
func (u *User) SetPassword(password string) {
	h := HashPassword(password)
	u.PasswordHash = &h
}

// LockAccount disables password login without discarding the account.
func (u *User) LockAccount() {
	locked := "!"
	u.PasswordHash = &locked
}

// IsLocked reports whether the account's password field marks it locked.
func (u *User) IsLocked() bool {
	if u.PasswordHash == nil {
		return false
	}
	h := *u.PasswordHash
	return h == "!" || h == "*"
}

// Group is a single entry in the group database.
type Group struct {
	Name    string
	Gid     ids.Gid
	Members []string
}

// NewGroup builds an empty Group.
func NewGroup(name string, gid ids.Gid) *Group {
	return &Group{Name: name, Gid: gid}
}

// AddMember adds username to the group if not already a member.
func (g *Group) AddMember(username string) {
	for _, m := range g.Members {
		if m == username {
			return
		}
	}
	g.Members = append(g.Members, username)
}

// RemoveMember removes username from the group, if present.
func (g *Group) RemoveMember(username string) {
	out := g.Members[:0]
	for _, m := range g.Members {
		if m != username {
			out = append(out, m)
		}
	}
	g.Members = out
}

func (g *Group) hasMember(username string) bool {
	for _, m := range g.Members {
		if m == username {
			return true
		}
	}
	return false
}
