package model

type LockFile struct {
	ID        string `yaml:"id"`
	User      string `yaml:"user"`
	Pid       int    `yaml:"pid"`
	DBPath    string `yaml:"db_path"`
	TimeStamp string `yaml:"timestamp"`
}
