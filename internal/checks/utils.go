package checks

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ozzus/pingdumb/internal/domain"
)

func stringParam(params map[string]interface{}, key, fallback string) string {
	if params == nil {
		return fallback
	}

	if value, ok := params[key]; ok {
		switch v := value.(type) {
		case string:
			if v == "" {
				return fallback
			}
			return v
		case fmt.Stringer:
			return v.String()
		default:
			str := fmt.Sprintf("%v", value)
			if str == "" {
				return fallback
			}
			return str
		}
	}

	return fallback
}

func intParam(params map[string]interface{}, key string, fallback int) int {
	if params == nil {
		return fallback
	}

	if value, ok := params[key]; ok {
		switch v := value.(type) {
		case int:
			return v
		case int32:
			return int(v)
		case int64:
			return int(v)
		case float32:
			return int(v)
		case float64:
			return int(v)
		case string:
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		}
	}

	return fallback
}

func boolParam(params map[string]interface{}, key string, fallback bool) bool {
	if params == nil {
		return fallback
	}

	if value, ok := params[key]; ok {
		switch v := value.(type) {
		case bool:
			return v
		case string:
			if parsed, err := strconv.ParseBool(v); err == nil {
				return parsed
			}
		case float64:
			return v != 0
		case int:
			return v != 0
		}
	}

	return fallback
}

// secondsParam reads a whole number of seconds; strings may also use
// time.ParseDuration syntax.
func secondsParam(params map[string]interface{}, key string, fallback time.Duration) time.Duration {
	if params == nil {
		return fallback
	}

	if value, ok := params[key]; ok {
		if s, isString := value.(string); isString {
			if parsed, err := time.ParseDuration(s); err == nil {
				return parsed
			}
		}
		if n := intParam(params, key, 0); n > 0 {
			return time.Duration(n) * time.Second
		}
	}

	return fallback
}

func stringMapParam(params map[string]interface{}, key string) map[string]string {
	raw, ok := params[key].(map[string]interface{})
	if !ok {
		return nil
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}

// normalizeHostname reduces a target to a bare host for tools like ping.
func normalizeHostname(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", domain.NewConfigurationError("empty target")
	}

	if strings.Contains(target, "://") {
		parsed, err := url.Parse(target)
		if err != nil || parsed.Hostname() == "" {
			return "", domain.NewConfigurationError(fmt.Sprintf("malformed target: %q", target))
		}
		return parsed.Hostname(), nil
	}

	if host, _, err := net.SplitHostPort(target); err == nil {
		target = host
	}

	if strings.HasPrefix(target, "-") || strings.ContainsAny(target, " \t/") {
		return "", domain.NewConfigurationError(fmt.Sprintf("malformed target: %q", target))
	}

	return target, nil
}

func seconds(d time.Duration) int {
	s := int(d.Round(time.Second).Seconds())
	if s < 1 {
		return 1
	}
	return s
}
