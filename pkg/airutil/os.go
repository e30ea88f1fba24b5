package airutil

import (
	"os"

	"github.com/drone/envsubst"
)

func ExpandEnv(s string) string {
	val, _ := envsubst.EvalEnv(s)
	return val
}

// Expand substitutes variables in s, preferring values from
// vars and falling back to the process environment.
func Expand(s string, vars map[string]string) (string, error) {
	return envsubst.Eval(s, func(key string) string {
		if v, ok := vars[key]; ok {
			return v
		}
		return os.Getenv(key)
	})
}
