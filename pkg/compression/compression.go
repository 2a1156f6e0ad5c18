// Package compression maps user-facing compression method names and levels to
// concrete per-entry codec configurations for ZIP archives.
package compression

import (
	"strconv"
	"strings"

	"github.com/glorpus-work/zipack/pkg/errors"
)

// Method identifies the compression algorithm applied to an archive entry.
type Method uint8

const (
	Store Method = iota
	Deflate
	Bzip2
	Zstd
	AES
)

// Level bounds accepted by the command surface.
const (
	MinLevel = 0
	MaxLevel = 9
)

// ZIP method identifiers as written to entry headers.
const (
	zipMethodStore   uint16 = 0
	zipMethodDeflate uint16 = 8
	zipMethodBzip2   uint16 = 12
	zipMethodZstd    uint16 = 93
	zipMethodAES     uint16 = 99
)

var methodNames = map[string]Method{
	"store":   Store,
	"deflate": Deflate,
	"bz2":     Bzip2,
	"zstd":    Zstd,
	"aes":     AES,
}

func (m Method) String() string {
	switch m {
	case Store:
		return "store"
	case Deflate:
		return "deflate"
	case Bzip2:
		return "bz2"
	case Zstd:
		return "zstd"
	case AES:
		return "aes"
	default:
		return "unknown"
	}
}

// ZipMethod returns the method identifier stored in ZIP entry headers.
func (m Method) ZipMethod() uint16 {
	switch m {
	case Deflate:
		return zipMethodDeflate
	case Bzip2:
		return zipMethodBzip2
	case Zstd:
		return zipMethodZstd
	case AES:
		return zipMethodAES
	default:
		return zipMethodStore
	}
}

// Supported reports whether entries can be written with this method.
// AES is a recognized name but encrypted entries are not produced.
func (m Method) Supported() bool {
	switch m {
	case Store, Deflate, Bzip2, Zstd:
		return true
	default:
		return false
	}
}

// MethodForZip returns the Method for a ZIP header method identifier.
func MethodForZip(id uint16) (Method, bool) {
	for _, m := range []Method{Store, Deflate, Bzip2, Zstd, AES} {
		if m.ZipMethod() == id {
			return m, true
		}
	}
	return Store, false
}

// Methods returns the accepted method names in display order.
func Methods() []string {
	return []string{"aes", "bz2", "deflate", "zstd", "store"}
}

// ParseMethod matches name case-insensitively against the known methods.
func ParseMethod(name string) (Method, error) {
	m, ok := methodNames[strings.ToLower(name)]
	if !ok {
		return Store, errors.ErrUnknownMethodWithDetails(name, Methods())
	}
	return m, nil
}

// ValidateLevel checks that level lies within [MinLevel, MaxLevel].
func ValidateLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return errors.ErrInvalidLevelWithValue(level, MinLevel, MaxLevel)
	}
	return nil
}

// Config is the codec configuration applied to every entry of a run.
type Config struct {
	Method Method
	Level  int
}

// Resolve turns a method name and level into a Config. Unrecognized names
// resolve to Store. The level is not range checked here; callers validate it
// with ValidateLevel first.
func Resolve(name string, level int) Config {
	m, err := ParseMethod(name)
	if err != nil {
		m = Store
	}
	return Config{Method: m, Level: level}
}

func (c Config) String() string {
	if c.Method == Store {
		return c.Method.String()
	}
	return c.Method.String() + ":" + strconv.Itoa(c.Level)
}
