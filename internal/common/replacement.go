package common

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
)

// refPattern matches {NAME} references in config strings
var refPattern = regexp.MustCompile(`\{([a-zA-Z0-9_-]+)\}`)

// EnvMap returns the process environment as a map
func EnvMap() map[string]string {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return vars
}

// ReplaceReferences substitutes every {NAME} in input with vars[NAME].
// Unknown names are left unchanged and logged as warnings.
func ReplaceReferences(input string, vars map[string]string, logger arbor.ILogger) string {
	if input == "" {
		return input
	}

	return refPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := match[1 : len(match)-1]
		if value, ok := vars[name]; ok {
			return value
		}
		logger.Warn().Str("reference", match).Msg("Unresolved config reference")
		return match
	})
}

// ReplaceInStruct walks the exported string and []string fields of the struct
// v points to, including nested structs, and replaces references in place.
// Values are never logged since references usually carry credentials.
func ReplaceInStruct(v interface{}, vars map[string]string, logger arbor.ILogger) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("ReplaceInStruct requires a struct pointer, got %T", v)
	}
	replaceInValue(val.Elem(), "", vars, logger)
	return nil
}

func replaceInValue(val reflect.Value, prefix string, vars map[string]string, logger arbor.ILogger) {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}
		name := prefix + typ.Field(i).Name

		switch field.Kind() {
		case reflect.String:
			replaceString(field, name, vars, logger)
		case reflect.Struct:
			replaceInValue(field, name+".", vars, logger)
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					replaceString(field.Index(j), fmt.Sprintf("%s[%d]", name, j), vars, logger)
				}
			}
		}
	}
}

func replaceString(field reflect.Value, name string, vars map[string]string, logger arbor.ILogger) {
	old := field.String()
	if updated := ReplaceReferences(old, vars, logger); updated != old {
		field.SetString(updated)
		logger.Debug().Str("field", name).Msg("Resolved config reference")
	}
}
