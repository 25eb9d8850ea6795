package session

import (
	"errors"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

type Role string

const (
	RoleNone   Role = ""
	RoleFarmer Role = "farmer"
	RoleVVB    Role = "vvb"
)

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return RoleNone, nil
	case string(RoleFarmer):
		return RoleFarmer, nil
	case string(RoleVVB):
		return RoleVVB, nil
	}
	return RoleNone, ErrUnknownRole
}

func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	return string(r)
}
