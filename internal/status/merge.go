package status

// PlaceholderName is used when the server only answered on the remote
// console.
const PlaceholderName = "Unknown (A2S failed)"

// Rules keys checked, in order, when the console did not provide a value.
var (
	NextMapRuleKeys  = []string{"nextmap", "sm_nextmap", "mp_nextmap"}
	TimeLeftRuleKeys = []string{"timeleft", "mp_timeleft", "mp_timelimit"}
)

// Merge combines a fetched status with console information. A server which
// did not answer the query but answered on the console with a next map or a
// time left is considered online; missing values are filled with
// placeholders.
func Merge(st Status, info ConsoleInfo) Status {
	if st.Online || info.Empty() {
		return st
	}

	merged := st
	merged.Online = true

	if merged.Name == "" {
		merged.Name = PlaceholderName
	}
	if merged.Map == "" {
		merged.Map = Unknown
	}
	if merged.Players == nil {
		merged.Players = []Player{}
	}

	return merged
}

func NextMap(st Status, info ConsoleInfo) string {
	return pick(info.NextMap, st.Rules, NextMapRuleKeys)
}

func TimeLeft(st Status, info ConsoleInfo) string {
	return pick(info.TimeLeft, st.Rules, TimeLeftRuleKeys)
}

func pick(consoleValue string, rules map[string]string, keys []string) string {
	if consoleValue != "" {
		return consoleValue
	}

	if value, _ := LookupRule(rules, keys); value != "" {
		return value
	}

	return Unknown
}

// LookupRule returns the first non-empty value found under one of the keys
// and the key it was found under.
func LookupRule(rules map[string]string, keys []string) (string, string) {
	for _, key := range keys {
		if value := rules[key]; value != "" {
			return value, key
		}
	}

	return "", ""
}
