package cache

// ProfileListKey is the cache key for one owner's full profile list.
func ProfileListKey(ownerID string) string {
	return "profiles:list:v1:owner=" + ownerID
}
