package tempscope

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseError reports a line that is not a temperature sample
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid sample %q: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes every ParseError match ErrParseFailure
func (e *ParseError) Is(target error) bool {
	return target == ErrParseFailure
}

// ParseSample interprets a whole line as one decimal temperature.
// Sign, fraction and exponent are accepted; separators, hex floats, NaN
// and infinities are not.
func ParseSample(line string) (float64, error) {
	text := strings.TrimSpace(line)
	if text == "" {
		return 0, &ParseError{Line: line, Err: fmt.Errorf("empty line")}
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, &ParseError{Line: line, Err: err}
	}

	// decimal only checks the syntax here; its Float64 expands the exponent
	// into a big.Int and stalls on lines like "1e99999999"
	value, err := strconv.ParseFloat(text, 64)
	if errors.Is(err, strconv.ErrRange) || (value == 0 && !d.IsZero()) {
		return 0, &ParseError{Line: line, Err: fmt.Errorf("value out of range")}
	}
	if err != nil {
		return 0, &ParseError{Line: line, Err: err}
	}
	return value, nil
}
