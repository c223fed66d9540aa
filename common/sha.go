package common

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sha256 returns the lowercase hex sha256 digest of msg.
func Sha256(msg []byte) string {
	sum := sha256.Sum256(msg)
	return hex.EncodeToString(sum[:])
}

func Sha256String(msg string) string {
	return Sha256([]byte(msg))
}

// TextDataURI is the content an ethscription handle is inscribed with.
func TextDataURI(text string) string {
	return "data:," + text
}

// BuildDataURI keeps inputs that already are data URIs, everything else is
// wrapped as data:{mimetype}[;base64],{of}.
func BuildDataURI(of, mimetype string, isBase64 bool) string {
	if strings.HasPrefix(of, "data") {
		return of
	}
	sep := ","
	if isBase64 {
		sep = ";base64,"
	}
	return "data:" + mimetype + sep + of
}
