package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minisql/pkg/server"
	"minisql/pkg/utils"

	"gopkg.in/yaml.v2"
)

type Config struct {
	ServerConf *ServerConfig `yaml:"server"`
}

type ServerConfig struct {
	Address         string        `yaml:"address"`
	LogDir          string        `yaml:"logDir"`
	MetricsInterval time.Duration `yaml:"metricsInterval"`
}

var configFile string

func init() {
	flag.StringVar(&configFile, "f", "config.yaml", "配置文件")
}

func main() {

	flag.Parse()
	conf, err := os.ReadFile(configFile)
	if err != nil {
		log.Panicf("读取配置文件 %s 失败: %v", configFile, err)
	}

	var config Config
	err = yaml.Unmarshal(conf, &config)
	if err != nil {
		log.Panicf("解析配置文件 %s 失败: %v", configFile, err)
	}
	if config.ServerConf == nil {
		log.Panicf("配置文件 %s 缺少 server 配置", configFile)
	}

	logger := utils.GetLogger(config.ServerConf.LogDir)
	defer logger.Sync()
	sugar := logger.Sugar()

	sugar.Infof("配置文件: %s, 地址: %s, 指标间隔: %v",
		configFile, config.ServerConf.Address, config.ServerConf.MetricsInterval)

	s := server.Bootstrap(&server.Config{
		Address:         config.ServerConf.Address,
		MetricsInterval: config.ServerConf.MetricsInterval,
		Logger:          sugar,
	})

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigc
		sugar.Infof("收到信号 %v, 关闭服务器", sig)
		s.Stop()
	}()

	if err := s.Start(); err != nil {
		sugar.Errorf("服务器退出: %v", err)
	}
}
