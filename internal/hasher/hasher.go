// Package hasher computes xxHash64 content digests of textures and files.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/AnyUserName/texturec/internal/texture"
)

// DigestLen is the length of a full digest in hex characters.
const DigestLen = 16

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to hexLen characters (0 keeps all 16).
func ContentHash(data []byte, hexLen int) string {
	return format(xxhash.Sum64(data), hexLen)
}

// ContentHashReader computes xxHash64 from a reader, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return format(h.Sum64(), hexLen), nil
}

// File hashes the contents of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ContentHashReader(f, 0)
}

// Canvas digests a canvas including its size and format, so two canvases
// with equal bytes but different shapes never collide.
func Canvas(c *texture.Canvas) string {
	h := xxhash.New()
	var hdr [9]byte
	binary.BigEndian.PutUint32(hdr[0:], uint32(c.Width()))
	binary.BigEndian.PutUint32(hdr[4:], uint32(c.Height()))
	hdr[8] = byte(c.Format())
	h.Write(hdr[:])
	h.Write(c.Bytes())
	return format(h.Sum64(), 0)
}

func format(v uint64, hexLen int) string {
	full := hex.EncodeToString(binary.BigEndian.AppendUint64(nil, v))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
