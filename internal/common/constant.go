// Package common contains shared constants and sentinel errors used across
// gophnotes components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// DefaultNoteTitle is used when the first line of a note body is blank.
const DefaultNoteTitle = "New Note"

// MaxTitleLength bounds derived titles, in runes.
const MaxTitleLength = 255
