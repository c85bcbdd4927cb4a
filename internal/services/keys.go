package services

import "strings"

const (
	ViewedMessageIdsKey  = "viewedMessageIds"
	WeatherPreferenceKey = "userWeatherPreference"
	DraftKeyPrefix       = "creatorDraft:"
)

var userKeyEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

// UserKey scopes a key/value entry to one portal user. The user part is
// escaped so distinct users never share a key.
func UserKey(user, name string) string {
	return "user:" + userKeyEscaper.Replace(user) + ":" + name
}
