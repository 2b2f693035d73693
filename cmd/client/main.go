package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"minisql/pkg/client"
	"minisql/pkg/server"
	"minisql/pkg/sql"
	"minisql/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type Config struct {
	ClientConf *ClientConfig `yaml:"client"`
}

type ClientConfig struct {
	Server     string   `yaml:"server"`
	Compress   bool     `yaml:"compress"`
	Statements []string `yaml:"statements"`
}

// runner is satisfied by both a remote client and an in-process executor.
type runner interface {
	ExecSql(ctx context.Context, sqlStr string) (*server.Result, error)
}

var configFile string
var local bool
var statement string
var scriptFile string

func init() {
	flag.StringVar(&configFile, "f", "", "配置文件: -f config.yaml")
	flag.BoolVar(&local, "local", false, "在本进程内执行语句，不连接服务器")
	flag.StringVar(&statement, "e", "", "执行语句: -e \"SELECT * FROM t\"")
	flag.StringVar(&scriptFile, "script", "", "以 ';' 分隔的语句文件: -script init.sql")
}

func main() {

	flag.Parse()

	config := &ClientConfig{}
	if configFile != "" {
		conf, err := os.ReadFile(configFile)
		if err != nil {
			log.Panicf("读取配置文件 %s 失败: %v", configFile, err)
		}
		var c Config
		if err := yaml.Unmarshal(conf, &c); err != nil {
			log.Panicf("解析配置文件 %s 失败: %v", configFile, err)
		}
		if c.ClientConf != nil {
			config = c.ClientConf
		}
	}

	stmts, err := statements(config)
	if err != nil {
		log.Panicf("加载语句失败: %v", err)
	}

	logger := utils.GetLogger("")
	defer logger.Sync()
	sugar := logger.Sugar()

	var r runner
	if local {
		r = server.NewExecutor(zap.NewNop().Sugar())
	} else {
		if config.Server == "" {
			log.Panicf("未配置服务器地址, 请设置 client.server 或使用 -local")
		}
		c := client.NewClient(config.Server, config.Compress, sugar)
		if err := c.Connect(context.Background()); err != nil {
			log.Panicf("%v", err)
		}
		defer c.Close()
		r = c
	}

	if failed := run(context.Background(), r, stmts, os.Stdout); failed > 0 {
		sugar.Errorf("%d 条语句中 %d 条执行失败", len(stmts), failed)
		os.Exit(1)
	}
}

// statements picks -e, then -script, then the config file's list.
func statements(config *ClientConfig) ([]string, error) {
	if statement != "" {
		return sql.SplitStatements(statement), nil
	}
	if scriptFile != "" {
		script, err := os.ReadFile(scriptFile)
		if err != nil {
			return nil, err
		}
		return sql.SplitStatements(string(script)), nil
	}
	if len(config.Statements) == 0 {
		return nil, fmt.Errorf("nothing to run, pass -e, -script or client.statements")
	}
	return config.Statements, nil
}
