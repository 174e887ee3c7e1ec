// Command powertrain 加载整车配置，运行仿真并输出结果
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"powertrain"
	"powertrain/debug"
)

func main() {
	path := flag.String("config", "", "整车配置文件(YAML)，为空时使用内置配置")
	out := flag.String("out", "", "结果输出目录，为空时使用配置中的目录")
	verbose := flag.Bool("v", false, "输出调试日志")
	serve := flag.String("serve", "", "在该地址发布图表页面，如 :8080")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	p, err := powertrain.Load(*path, logger)
	if err != nil {
		logger.Error("加载配置失败", "err", err)
		os.Exit(1)
	}
	simErr := p.Simulate()
	if _, err := p.Export(*out); err != nil {
		logger.Error("保存结果失败", "err", err)
		os.Exit(1)
	}
	if *serve != "" {
		charts := &debug.Charts{Record: p.Record}
		http.HandleFunc("/", charts.Handler)
		logger.Info("图表页面", "addr", *serve)
		if err := http.ListenAndServe(*serve, nil); err != nil {
			logger.Error("网页服务失败", "err", err)
			os.Exit(1)
		}
	}
	if simErr != nil {
		logger.Error("仿真失败", "err", simErr)
		os.Exit(1)
	}
}
