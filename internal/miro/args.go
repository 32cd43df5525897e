package miro

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func numberArg(args map[string]interface{}, key string) (float64, bool) {
	f, ok := args[key].(float64)
	return f, ok
}

// errResult is the payload shape for argument and handler failures. It
// travels inside a successful tool-content envelope; only uncaught
// failures become isError content at the dispatch boundary.
func errResult(msg string) map[string]interface{} {
	return map[string]interface{}{"error": msg}
}
