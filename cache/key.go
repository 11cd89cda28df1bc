package cache

import (
	"crypto/md5"
	"encoding/base64"
	"hash/fnv"
	"strconv"
)

// Hash returns file name safe digest of a request identity.
// The manifest key guards against 64-bit name hash collisions, so it joins fnv and md5 digests.
func Hash(identity string) string {
	data := []byte(identity)
	short := fnv.New64()
	_, _ = short.Write(data)
	long := md5.Sum(data)
	return strconv.FormatUint(short.Sum64(), 36) + "_" + base64.RawURLEncoding.EncodeToString(long[:])
}
