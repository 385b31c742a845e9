package config

type Config struct {
	DB     DBConfig     `json:"db"  yaml:"db"`
	Redis  RedisConfig  `json:"redis"  yaml:"redis"`
	Logger LoggerConfig `json:"logger"  yaml:"logger"`
	Server ServerConfig `json:"server"  yaml:"server"`
	Scan   ScanConfig   `json:"scan"  yaml:"scan"`
}

type DBConfig struct {
	Host     string `json:"host"  yaml:"host"`
	Port     uint   `json:"port"  yaml:"port"`
	Username string `json:"username"  yaml:"username"`
	Password string `json:"password"  yaml:"password"`
	Database string `json:"database"  yaml:"database"`
}

type RedisConfig struct {
	Host     string `json:"host"  yaml:"host"`
	Port     uint   `json:"port"  yaml:"port"`
	Password string `json:"password"  yaml:"password"`
	Database int    `json:"database"  yaml:"database"`
	QueueKey string `json:"queueKey"  yaml:"queueKey"`
}

type ServerConfig struct {
	HttpPort   uint   `json:"httpPort"  yaml:"httpPort"`
	SslEnabled bool   `json:"sslEnabled"  yaml:"sslEnabled"`
	Key        string `json:"key"  yaml:"key"`
	Cert       string `json:"cert"  yaml:"cert"`
}

type ScanConfig struct {
	UploadDir string `json:"uploadDir"  yaml:"uploadDir"`
	ReportDir string `json:"reportDir"  yaml:"reportDir"`
	// ToolTimeoutSec bounds each external analyzer invocation.
	ToolTimeoutSec uint `json:"toolTimeoutSec"  yaml:"toolTimeoutSec"`
	// MaxParallel bounds concurrent analyzer invocations within one scan.
	MaxParallel int `json:"maxParallel"  yaml:"maxParallel"`
	// Workers is the number of goroutines pulling scan tasks from the queue.
	Workers int `json:"workers"  yaml:"workers"`
}

type LoggerConfig struct {
	Level  string `json:"level"  yaml:"level"`
	Output string `json:"output"  yaml:"output"`
	Path   string `json:"path"  yaml:"path"`
}
