package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type TelemetryConfig struct {
	LogLevel       string `yaml:"log_level"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
	PrometheusBind string `yaml:"prometheus_bind"`
}

type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type BusConfig struct {
	Embedded       bool     `yaml:"embedded"`
	Port           int      `yaml:"port"`
	StoreDir       string   `yaml:"store_dir"`
	Servers        []string `yaml:"servers"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	Token          string   `yaml:"token"`
	TLSInsecure    bool     `yaml:"tls_insecure"`
	ConnectTimeout int      `yaml:"connect_timeout_ms"`
}

type PersonaConfig struct {
	Name  string `yaml:"name"`
	Voice string `yaml:"voice"`
}

type AssistantConfig struct {
	GreetingTemplate string `yaml:"greeting_template"`
	LLMFailureReply  string `yaml:"llm_failure_reply"`
}

type ConversationConfig struct {
	Mode          string `yaml:"mode"` // memory, persistent
	Path          string `yaml:"path"`
	MaxTurns      int    `yaml:"max_turns"`
	VacuumOnStart bool   `yaml:"vacuum_on_start"`
}

type CapabilitiesConfig struct {
	Granted []string `yaml:"granted"`
}

type ActionsConfig struct {
	Mode    string `yaml:"mode"` // bus, exec, mock
	Command string `yaml:"command"`
}

type LLMConfig struct {
	Mode        string  `yaml:"mode"` // mock, ollama, exec
	Endpoint    string  `yaml:"endpoint"`
	Command     string  `yaml:"command"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type SpeechConfig struct {
	Mode    string `yaml:"mode"` // bus, exec, mock
	Command string `yaml:"command"`
}

type Config struct {
	RuntimeName  string             `yaml:"runtime_name"`
	Environment  string             `yaml:"environment"`
	HTTP         HTTPConfig         `yaml:"http"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Bus          BusConfig          `yaml:"bus"`
	Persona      PersonaConfig      `yaml:"persona"`
	Assistant    AssistantConfig    `yaml:"assistant"`
	Conversation ConversationConfig `yaml:"conversation"`
	Capabilities CapabilitiesConfig `yaml:"capabilities"`
	Actions      ActionsConfig      `yaml:"actions"`
	LLM          LLMConfig          `yaml:"llm"`
	Speech       SpeechConfig       `yaml:"speech"`
}

func Default() Config {
	return Config{
		RuntimeName: "aria-core",
		Environment: "development",
		HTTP: HTTPConfig{
			Bind: "0.0.0.0",
			Port: 8080,
		},
		Telemetry: TelemetryConfig{
			LogLevel:       "info",
			OTLPEndpoint:   "",
			OTLPInsecure:   true,
			PrometheusBind: ":9091",
		},
		Bus: BusConfig{
			Embedded:       true,
			Port:           4222,
			StoreDir:       "./data/nats",
			Servers:        []string{"nats://localhost:4222"},
			ConnectTimeout: 2000,
		},
		Persona: PersonaConfig{
			Name:  "Aria",
			Voice: "default",
		},
		Assistant: AssistantConfig{
			GreetingTemplate: "Hi, I'm %s! How can I help you today?",
			LLMFailureReply:  "I'm having trouble reaching the AI service right now. Let's try again soon.",
		},
		Conversation: ConversationConfig{
			Mode:     "persistent",
			Path:     "./data/aria-conversation.db",
			MaxTurns: 1000,
		},
		Actions: ActionsConfig{
			Mode: "bus",
		},
		LLM: LLMConfig{
			Mode:        "mock",
			Endpoint:    "http://localhost:11434",
			Model:       "llama3.2:latest",
			MaxTokens:   256,
			Temperature: 0.7,
		},
		Speech: SpeechConfig{
			Mode: "bus",
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.RuntimeName, "ARIA_RUNTIME_NAME")
	overrideString(&cfg.Environment, "ARIA_RUNTIME_ENVIRONMENT")
	overrideString(&cfg.HTTP.Bind, "ARIA_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "ARIA_HTTP_PORT")
	overrideString(&cfg.Telemetry.LogLevel, "ARIA_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "ARIA_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "ARIA_TELEMETRY_OTLP_INSECURE")
	overrideString(&cfg.Telemetry.PrometheusBind, "ARIA_TELEMETRY_PROMETHEUS_BIND")
	overrideBool(&cfg.Bus.Embedded, "ARIA_BUS_EMBEDDED")
	overrideInt(&cfg.Bus.Port, "ARIA_BUS_PORT")
	overrideString(&cfg.Bus.StoreDir, "ARIA_BUS_STORE_DIR")
	overrideStringSlice(&cfg.Bus.Servers, "ARIA_BUS_SERVERS")
	overrideString(&cfg.Bus.Username, "ARIA_BUS_USERNAME")
	overrideString(&cfg.Bus.Password, "ARIA_BUS_PASSWORD")
	overrideString(&cfg.Bus.Token, "ARIA_BUS_TOKEN")
	overrideBool(&cfg.Bus.TLSInsecure, "ARIA_BUS_TLS_INSECURE")
	overrideInt(&cfg.Bus.ConnectTimeout, "ARIA_BUS_CONNECT_TIMEOUT_MS")
	overrideString(&cfg.Persona.Name, "ARIA_PERSONA_NAME")
	overrideString(&cfg.Persona.Voice, "ARIA_PERSONA_VOICE")
	overrideString(&cfg.Assistant.GreetingTemplate, "ARIA_ASSISTANT_GREETING_TEMPLATE")
	overrideString(&cfg.Assistant.LLMFailureReply, "ARIA_ASSISTANT_LLM_FAILURE_REPLY")
	overrideString(&cfg.Conversation.Mode, "ARIA_CONVERSATION_MODE")
	overrideString(&cfg.Conversation.Path, "ARIA_CONVERSATION_PATH")
	overrideInt(&cfg.Conversation.MaxTurns, "ARIA_CONVERSATION_MAX_TURNS")
	overrideBool(&cfg.Conversation.VacuumOnStart, "ARIA_CONVERSATION_VACUUM_ON_START")
	overrideStringSlice(&cfg.Capabilities.Granted, "ARIA_CAPABILITIES_GRANTED")
	overrideString(&cfg.Actions.Mode, "ARIA_ACTIONS_MODE")
	overrideString(&cfg.Actions.Command, "ARIA_ACTIONS_COMMAND")
	overrideString(&cfg.LLM.Mode, "ARIA_LLM_MODE")
	overrideString(&cfg.LLM.Endpoint, "ARIA_LLM_ENDPOINT")
	overrideString(&cfg.LLM.Command, "ARIA_LLM_COMMAND")
	overrideString(&cfg.LLM.Model, "ARIA_LLM_MODEL")
	overrideInt(&cfg.LLM.MaxTokens, "ARIA_LLM_MAX_TOKENS")
	overrideFloat(&cfg.LLM.Temperature, "ARIA_LLM_TEMPERATURE")
	overrideString(&cfg.Speech.Mode, "ARIA_SPEECH_MODE")
	overrideString(&cfg.Speech.Command, "ARIA_SPEECH_COMMAND")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideStringSlice(target *[]string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		parts := strings.Split(value, ",")
		var trimmed []string
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			*target = trimmed
		}
	}
}

func overrideFloat(target *float64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	if cfg.RuntimeName == "" {
		return errors.New("runtime_name must not be empty")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return errors.New("http.port must be between 1 and 65535")
	}
	if cfg.Bus.Embedded {
		if cfg.Bus.Port <= 0 || cfg.Bus.Port > 65535 {
			return errors.New("bus.port must be between 1 and 65535 when embedded mode is enabled")
		}
	} else {
		if len(cfg.Bus.Servers) == 0 {
			return errors.New("bus.servers must not be empty when embedded mode is disabled")
		}
	}
	if cfg.Telemetry.PrometheusBind == "" {
		return errors.New("telemetry.prometheus_bind must not be empty")
	}
	if cfg.Persona.Name == "" {
		return errors.New("persona.name must not be empty")
	}
	if !strings.Contains(cfg.Assistant.GreetingTemplate, "%s") {
		return errors.New("assistant.greeting_template must contain a %s placeholder for the persona name")
	}
	if cfg.Assistant.LLMFailureReply == "" {
		return errors.New("assistant.llm_failure_reply must not be empty")
	}
	switch cfg.Conversation.Mode {
	case "memory", "persistent":
	default:
		return errors.New("conversation.mode must be one of memory|persistent")
	}
	if cfg.Conversation.Mode == "persistent" && cfg.Conversation.Path == "" {
		return errors.New("conversation.path must not be empty when mode=persistent")
	}
	if cfg.Conversation.MaxTurns < 0 {
		return errors.New("conversation.max_turns must be >= 0")
	}
	switch cfg.Actions.Mode {
	case "bus", "exec", "mock":
	default:
		return errors.New("actions.mode must be one of bus|exec|mock")
	}
	if cfg.Actions.Mode == "exec" && cfg.Actions.Command == "" {
		return errors.New("actions.command must be set when mode=exec")
	}
	switch cfg.LLM.Mode {
	case "mock", "ollama", "exec":
	default:
		return errors.New("llm.mode must be one of mock|ollama|exec")
	}
	if cfg.LLM.Mode == "ollama" && cfg.LLM.Endpoint == "" {
		return errors.New("llm.endpoint must be set when mode=ollama")
	}
	if cfg.LLM.Mode == "exec" && cfg.LLM.Command == "" {
		return errors.New("llm.command must be set when mode=exec")
	}
	if cfg.LLM.MaxTokens < 0 {
		return errors.New("llm.max_tokens must be >= 0")
	}
	switch cfg.Speech.Mode {
	case "bus", "exec", "mock":
	default:
		return errors.New("speech.mode must be one of bus|exec|mock")
	}
	if cfg.Speech.Mode == "exec" && cfg.Speech.Command == "" {
		return errors.New("speech.command must be set when mode=exec")
	}
	return nil
}
