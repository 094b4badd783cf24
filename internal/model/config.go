package model

type Config struct {
	DBPath   string `yaml:"db_path" env:"TASKBOARD_DB"`
	Editor   string `yaml:"editor" env:"EDITOR" env-default:"vim"`
	LogLevel string `yaml:"log_level" env:"TASKBOARD_LOG_LEVEL" env-default:"INFO"`
	Session  struct {
		KeepAfterUpdate bool `yaml:"keep_after_update" env:"TASKBOARD_KEEP_AFTER_UPDATE"`
	} `yaml:"session"`
	List struct {
		PageSize int `yaml:"page_size" env-default:"20"`
	} `yaml:"list"`
	Sync struct {
		Enable     bool   `yaml:"enable"`
		Bucket     string `yaml:"bucket" env:"TASKBOARD_SYNC_BUCKET"`
		Prefix     string `yaml:"prefix"`
		AWSProfile string `yaml:"aws_profile" env:"AWS_PROFILE"`
		AWSRegion  string `yaml:"aws_region" env:"AWS_REGION"`
	} `yaml:"sync"`
}

func DefaultConfig() Config {
	var c Config
	c.DBPath = "~/.config/taskboard/tasks.db"
	c.Editor = "vim"
	c.LogLevel = "INFO"
	c.List.PageSize = 20
	c.Sync.Prefix = "taskboard"
	return c
}
