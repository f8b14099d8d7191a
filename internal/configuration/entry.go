package configuration

// BooleanDefaultEntry is a boolean flag with a default.
type BooleanDefaultEntry struct {
	Key          Key
	DefaultValue bool
}

func (e BooleanDefaultEntry) GetValue(c Configuration) bool {
	return c.GetBoolean(e.Key, e.DefaultValue)
}

// IntegerDefaultEntry is an integer setting with a default.
type IntegerDefaultEntry struct {
	Key          Key
	DefaultValue int
}

func (e IntegerDefaultEntry) GetValue(c Configuration) int {
	return c.GetInt(e.Key, e.DefaultValue)
}

// StringDefaultEntry is a string setting with a default.
type StringDefaultEntry struct {
	Key          Key
	DefaultValue string
}

func (e StringDefaultEntry) GetValue(c Configuration) string {
	return c.GetString(e.Key, e.DefaultValue)
}
