package security

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	kerrors "axeberg-kernel/errors"
	"axeberg-kernel/ids"
)

// UserDB is the kernel's user and group database, round-trippable to the
// passwd(5)/shadow(5)/group(5) text formats.
type UserDB struct {
	users        map[ids.Uid]*User
	usersByName  map[string]ids.Uid
	groups       map[ids.Gid]*Group
	groupsByName map[string]ids.Gid
	nextUid      uint32
	nextGid      uint32
}

// NewEmptyUserDB returns a database with no users or groups and
// allocation counters starting at 1000.
func NewEmptyUserDB() *UserDB {
	return &UserDB{
		users:        make(map[ids.Uid]*User),
		usersByName:  make(map[string]ids.Uid),
		groups:       make(map[ids.Gid]*Group),
		groupsByName: make(map[string]ids.Gid),
		nextUid:      1000,
		nextGid:      1000,
	}
}

// NewUserDB returns a database seeded with root, wheel, a regular "user"
// account (member of wheel), and nobody/nogroup.
func NewUserDB() *UserDB {
	db := NewEmptyUserDB()

	db.createSystemUser("root", ids.Root, ids.RootGid, "/root")
	db.createSystemGroup("root", ids.RootGid)

	db.createSystemGroup("wheel", ids.Gid(10))

	userGid := ids.Gid(1000)
	db.createSystemGroup("user", userGid)
	db.createSystemUser("user", ids.Uid(1000), userGid, "/home/user")

	if wheel, ok := db.groups[ids.Gid(10)]; ok {
		wheel.AddMember("user")
	}

	db.createSystemUser("nobody", ids.Uid(65534), ids.Gid(65534), "/nonexistent")
	db.createSystemGroup("nogroup", ids.Gid(65534))

	return db
}

func (db *UserDB) createSystemUser(name string, uid ids.Uid, gid ids.Gid, home string) {
	u := NewUser(name, uid, gid)
	u.Home = home
	if name == "root" {
		u.Shell = "/bin/sh"
		// Root starts passwordless; set one with GetUserByName+SetPassword.
	}
	db.users[uid] = u
	db.usersByName[name] = uid
}

func (db *UserDB) createSystemGroup(name string, gid ids.Gid) {
	db.groups[gid] = NewGroup(name, gid)
	db.groupsByName[name] = gid
}

// ToPasswd renders the database in passwd(5) format, sorted by uid.
func (db *UserDB) ToPasswd() string {
	var b strings.Builder
	for _, u := range db.sortedUsers() {
		fmt.Fprintf(&b, "%s:x:%d:%d:%s:%s:%s\n", u.Name, uint32(u.Uid), uint32(u.Gid), u.Gecos, u.Home, u.Shell)
	}
	return b.String()
}

// ParsePasswd merges passwd(5)-formatted content into the database.
func (db *UserDB) ParsePasswd(content string) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < 7 {
			continue
		}
		name := parts[0]
		uid := ids.Uid(parseUint32(parts[2], 65534))
		gid := ids.Gid(parseUint32(parts[3], 65534))

		if uint32(uid) >= 1000 && uint32(uid) < 65534 && uint32(uid) >= db.nextUid {
			db.nextUid = uint32(uid) + 1
		}

		u := NewUser(name, uid, gid)
		u.Gecos = parts[4]
		u.Home = parts[5]
		u.Shell = parts[6]

		db.users[uid] = u
		db.usersByName[name] = uid
	}
}

// ToShadow renders the database in shadow(5) format, sorted by uid.
func (db *UserDB) ToShadow() string {
	var b strings.Builder
	for _, u := range db.sortedUsers() {
		hash := "!"
		if u.PasswordHash != nil {
			hash = *u.PasswordHash
		}
		fmt.Fprintf(&b, "%s:%s:19000:0:99999:7:::\n", u.Name, hash)
	}
	return b.String()
}

// ParseShadow merges shadow(5)-formatted password hashes into the
// database. Users not already present are ignored.
func (db *UserDB) ParseShadow(content string) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < 2 {
			continue
		}
		name, hash := parts[0], parts[1]
		// A salted hash is "salt_hex:hash_hex" and so spans two fields;
		// the seven shadow(5) fields after the password are fixed.
		if len(parts) > 9 {
			hash = strings.Join(parts[1:len(parts)-7], ":")
		}
		uid, ok := db.usersByName[name]
		if !ok {
			continue
		}
		u := db.users[uid]
		if hash == "!" || hash == "*" || hash == "" {
			u.PasswordHash = nil
		} else {
			h := hash
			u.PasswordHash = &h
		}
	}
}

// ToGroup renders the database in group(5) format, sorted by gid.
func (db *UserDB) ToGroup() string {
	var b strings.Builder
	for _, g := range db.sortedGroups() {
		fmt.Fprintf(&b, "%s:x:%d:%s\n", g.Name, uint32(g.Gid), strings.Join(g.Members, ","))
	}
	return b.String()
}

// ParseGroup merges group(5)-formatted content into the database.
func (db *UserDB) ParseGroup(content string) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < 4 {
			continue
		}
		name := parts[0]
		gid := ids.Gid(parseUint32(parts[2], 65534))
		membersStr := parts[3]

		if uint32(gid) >= 1000 && uint32(gid) < 65534 && uint32(gid) >= db.nextGid {
			db.nextGid = uint32(gid) + 1
		}

		g := NewGroup(name, gid)
		if membersStr != "" {
			g.Members = strings.Split(membersStr, ",")
		}

		db.groups[gid] = g
		db.groupsByName[name] = gid
	}
}

// AddUser allocates a new uid for name. If gid is nil, a new group named
// after the user is created and used as the primary group.
func (db *UserDB) AddUser(name string, gid *ids.Gid) (ids.Uid, error) {
	if _, exists := db.usersByName[name]; exists {
		return 0, kerrors.ErrUserExists
	}

	uid := ids.Uid(db.nextUid)
	db.nextUid++

	var primaryGid ids.Gid
	if gid != nil {
		primaryGid = *gid
	} else {
		primaryGid = ids.Gid(db.nextGid)
		db.nextGid++
		db.groups[primaryGid] = NewGroup(name, primaryGid)
		db.groupsByName[name] = primaryGid
	}

	db.users[uid] = NewUser(name, uid, primaryGid)
	db.usersByName[name] = uid

	return uid, nil
}

// AddGroup allocates a new gid for name.
func (db *UserDB) AddGroup(name string) (ids.Gid, error) {
	if _, exists := db.groupsByName[name]; exists {
		return 0, kerrors.ErrGroupExists
	}

	gid := ids.Gid(db.nextGid)
	db.nextGid++

	db.groups[gid] = NewGroup(name, gid)
	db.groupsByName[name] = gid

	return gid, nil
}

func (db *UserDB) GetUser(uid ids.Uid) (*User, bool) {
	u, ok := db.users[uid]
	return u, ok
}

func (db *UserDB) GetUserByName(name string) (*User, bool) {
	uid, ok := db.usersByName[name]
	if !ok {
		return nil, false
	}
	return db.users[uid], true
}

func (db *UserDB) GetGroup(gid ids.Gid) (*Group, bool) {
	g, ok := db.groups[gid]
	return g, ok
}

func (db *UserDB) GetGroupByName(name string) (*Group, bool) {
	gid, ok := db.groupsByName[name]
	if !ok {
		return nil, false
	}
	return db.groups[gid], true
}

// GetUserGroups returns the primary group first, followed by
// supplementary groups the user belongs to.
func (db *UserDB) GetUserGroups(username string) []ids.Gid {
	var groups []ids.Gid

	if u, ok := db.GetUserByName(username); ok {
		groups = append(groups, u.Gid)
	}

	for _, gid := range db.sortedGroupIds() {
		g := db.groups[gid]
		if g.hasMember(username) && !containsGid(groups, gid) {
			groups = append(groups, gid)
		}
	}

	return groups
}

func containsGid(groups []ids.Gid, gid ids.Gid) bool {
	for _, g := range groups {
		if g == gid {
			return true
		}
	}
	return false
}

// ListUsers returns all users, sorted by uid.
func (db *UserDB) ListUsers() []*User {
	return db.sortedUsers()
}

// ListGroups returns all groups, sorted by gid.
func (db *UserDB) ListGroups() []*Group {
	return db.sortedGroups()
}

// CanSudo reports whether username is a member of the wheel group.
func (db *UserDB) CanSudo(username string) bool {
	wheel, ok := db.GetGroupByName("wheel")
	if !ok {
		return false
	}
	return wheel.hasMember(username)
}

func (db *UserDB) sortedUsers() []*User {
	out := make([]*User, 0, len(db.users))
	for _, u := range db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Uid < out[j].Uid })
	return out
}

func (db *UserDB) sortedGroups() []*Group {
	out := make([]*Group, 0, len(db.groups))
	for _, g := range db.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Gid < out[j].Gid })
	return out
}

func (db *UserDB) sortedGroupIds() []ids.Gid {
	out := make([]ids.Gid, 0, len(db.groups))
	for gid := range db.groups {
		out = append(out, gid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func parseUint32(s string, fallback uint32) uint32 {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fallback
	}
	return uint32(v)
}
