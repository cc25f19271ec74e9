package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the database.
// The refresh token and its expiry are nullable and always move
// together: both set on a successful login, both null otherwise. The
// password column holds the salted hash, never the plain value; the
// salt itself lives in the `salts` table.
//
// Fields:
//  ID                 – primary key identifier of the user.
//  Name               – unique display name, also usable as a login identifier.
//  Email              – unique email address.
//  Role               – role name (USER, MODERADOR or ADMIN).
//  Password           – hex-encoded salted password hash.
//  RefreshToken       – current opaque refresh token (nil when none issued).
//  RefreshTokenExpiry – when the refresh token stops being valid (nil with token).
//  LastAccess         – timestamp of the last successful login.
//  Status             – whether the account is active; disabled accounts keep their row.
//  CreatedAt          – timestamp of creation.
//  LastUpdatedAt      – timestamp of last update.
type User struct {
	ID                 int64      // users.id
	Name               string     // users.name
	Email              string     // users.email
	Role               string     // users.role
	Password           string     // users.password
	RefreshToken       *string    // users.refresh_token (nullable)
	RefreshTokenExpiry *time.Time // users.refresh_token_expiry (nullable)
	LastAccess         time.Time  // users.last_access
	Status             bool       // users.status
	CreatedAt          time.Time  // users.created_at
	LastUpdatedAt      time.Time  // users.last_updated_at
}

// Salt models a row in the `salts` table. Exactly one row exists per
// user; it is written at provisioning and never updated. The value is
// only ever fed into password verification.
//
// Fields:
//  ID       – primary key identifier.
//  UserID   – owner of the salt.
//  SaltHash – opaque salt value combined with the password before hashing.
type Salt struct {
	ID       int64  // salts.id
	UserID   int64  // salts.user_id
	SaltHash string // salts.salt_hash
}
