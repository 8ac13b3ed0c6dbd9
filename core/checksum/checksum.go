package checksum

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Modulus is the modulus used by SumModulo when combining checksums.
const Modulus = 0xFFFFFFFF

// Field is a single named value taking part in a checksum.
type Field struct {
	Name  string
	Value any
}

// F is shorthand for constructing a Field.
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Of returns the 32-bit checksum of the given fields.
func Of(fields ...Field) uint32 {
	sorted := make([]Field, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	d := xxhash.New()
	for _, f := range sorted {
		_, _ = d.WriteString(f.Name)
		_, _ = d.WriteString("\x1f")
		_, _ = d.WriteString(encode(f.Value))
		_, _ = d.WriteString("\x1e")
	}
	return fold(d.Sum64())
}

// SumModulo combines checksums by modular addition. The result does not
// depend on the order of the input, but distinct inputs can collide.
func SumModulo(sums ...uint32) uint32 {
	var total uint64
	for _, s := range sums {
		total = (total + uint64(s)) % Modulus
	}
	return uint32(total)
}

// Keyed is a checksum belonging to an identified entity.
type Keyed struct {
	Key string
	Sum uint32
}

// Combine hashes keyed checksums in key order into one 64-bit value. The
// result does not depend on the order of the input.
func Combine(entries []Keyed) uint64 {
	sorted := make([]Keyed, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Key == sorted[j].Key {
			return sorted[i].Sum < sorted[j].Sum
		}
		return sorted[i].Key < sorted[j].Key
	})

	d := xxhash.New()
	for _, e := range sorted {
		_, _ = d.WriteString(e.Key)
		_, _ = d.WriteString("\x1f")
		_, _ = d.WriteString(strconv.FormatUint(uint64(e.Sum), 10))
		_, _ = d.WriteString("\x1e")
	}
	return d.Sum64()
}

func fold(h uint64) uint32 {
	return uint32(h) ^ uint32(h>>32)
}

func encode(v any) string {
	switch val := v.(type) {
	case nil:
		return "n:"
	case string:
		return "s:" + val
	case bool:
		return "b:" + strconv.FormatBool(val)
	case int:
		return "i:" + strconv.FormatInt(int64(val), 10)
	case int32:
		return "i:" + strconv.FormatInt(int64(val), 10)
	case int64:
		return "i:" + strconv.FormatInt(val, 10)
	case uint32:
		return "i:" + strconv.FormatUint(uint64(val), 10)
	case uint64:
		return "i:" + strconv.FormatUint(val, 10)
	case float64:
		return "f:" + strconv.FormatFloat(val, 'g', -1, 64)
	case *string:
		if val == nil {
			return "n:"
		}
		return encode(*val)
	case *int:
		if val == nil {
			return "n:"
		}
		return encode(*val)
	case *int64:
		if val == nil {
			return "n:"
		}
		return encode(*val)
	case []string:
		out := "l:"
		for _, s := range val {
			out += strconv.Quote(s) + ","
		}
		return out
	case fmt.Stringer:
		return "s:" + val.String()
	default:
		return fmt.Sprintf("v:%v", val)
	}
}
