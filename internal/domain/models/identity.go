package models

import "strings"

const GroupSuffix = "@g.us"

func IsGroupID(id string) bool {
	return strings.HasSuffix(id, GroupSuffix)
}

// StorageKey отбрасывает сервер и номер устройства: "5511...:12@s.whatsapp.net" -> "5511...".
func StorageKey(id string) string {
	key, _, _ := strings.Cut(id, "@")
	key, _, _ = strings.Cut(key, ":")

	return key
}

func SameIdentity(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	return StorageKey(a) == StorageKey(b)
}
