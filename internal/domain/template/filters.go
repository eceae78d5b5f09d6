package template

import (
	"fmt"
	"math"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/microcosm-cc/bluemonday"

	"github.com/GriffinCanCode/capsulec/internal/shared/utils"
)

// jsonAPI sorts object keys and leaves '<', '>' and '&' unescaped so the
// output is a valid literal in every target language
var jsonAPI = sonic.Config{SortMapKeys: true}.Froze()

// strict strips all markup; bluemonday policies are safe for concurrent use
var strict = bluemonday.StrictPolicy()

type filterFunc func(v interface{}) interface{}

var filters = map[string]filterFunc{
	"upper":  stringFilter(utils.Upper),
	"lower":  stringFilter(utils.Lower),
	"title":  stringFilter(utils.Title),
	"pascal": stringFilter(utils.Pascal),
	"camel":  stringFilter(utils.Camel),
	"snake":  stringFilter(utils.Snake),
	"kebab":  stringFilter(utils.Kebab),
	"json":   func(v interface{}) interface{} { return marshal(v) },
	"quote":  func(v interface{}) interface{} { return marshal(format(v)) },
	"safe":   stringFilter(strict.Sanitize),
}

func stringFilter(fn func(string) string) filterFunc {
	return func(v interface{}) interface{} {
		return fn(format(v))
	}
}

// format renders a value as template text. Integral numbers print without
// a decimal point; arrays and objects print as JSON.
func format(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return marshal(v)
}

func marshal(v interface{}) string {
	out, err := jsonAPI.MarshalToString(v)
	if err != nil {
		return strconv.Quote(fmt.Sprint(v))
	}
	return out
}

// truthy reports the branch a value selects in a conditional
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case []interface{}:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	}
	return true
}
