package core

// ConfigurationScope is the declared reach of a setting.
type ConfigurationScope string

const (
	ScopeApplication         ConfigurationScope = "application"
	ScopeMachine             ConfigurationScope = "machine"
	ScopeWindow              ConfigurationScope = "window"
	ScopeResource            ConfigurationScope = "resource"
	ScopeLanguageOverridable ConfigurationScope = "language-overridable"
	ScopeMachineOverridable  ConfigurationScope = "machine-overridable"
)

// ConfigurationProperty is the registry's declaration of a setting key.
type ConfigurationProperty struct {
	Key   string             `json:"key"`
	Scope ConfigurationScope `json:"scope"`
}

// ConfigurationLevel selects which layer of effective values to read.
type ConfigurationLevel string

const (
	LevelUser      ConfigurationLevel = "user"
	LevelWorkspace ConfigurationLevel = "workspace"
)
