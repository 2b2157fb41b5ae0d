// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package models

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// WebUser is a login for the web interface. Only the password hash is stored.
type WebUser struct {
	Name            string `json:"name"`
	PasswordHash    string `json:"-"`
	PermissionLevel int    `json:"permission_level"`
}

// NewWebUser hashes password with bcrypt and returns the user.
func NewWebUser(name, password string, permissionLevel int) (WebUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return WebUser{}, fmt.Errorf("failed to hash password: %w", err)
	}
	return WebUser{Name: name, PasswordHash: string(hash), PermissionLevel: permissionLevel}, nil
}

// CheckPassword reports whether password matches the stored hash.
func (u WebUser) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (WebUser) portable() {}
