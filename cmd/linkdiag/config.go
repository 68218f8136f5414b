package main

import (
	"flag"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/dep2p/go-linkdiag"
	"github.com/dep2p/go-linkdiag/config"
)

// ============================================================================
//                              命令行参数
// ============================================================================
//
// 命令行参数只做「这次运行」的覆盖；持久化设置放在配置文件里。
// 优先级：命令行 > LINKDIAG_* 环境变量 > 配置文件 > 默认值。

type cliFlags struct {
	configFile  string
	quick       bool
	extended    bool
	jsonOut     bool
	outputPath  string
	logFile     string
	logLevel    string
	archiveDir  string
	history     int
	metricsFile string
	watch       time.Duration
	introspect  string
	noColor     bool
	printConfig bool
	showVersion bool

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	fl := &cliFlags{set: make(map[string]bool)}
	fs := flag.NewFlagSet("linkdiag", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&fl.configFile, "config", "", "配置文件路径（.json / .yaml）")
	fs.BoolVar(&fl.quick, "quick", false, "快速诊断：跳过扩展探测与路由追踪")
	fs.BoolVar(&fl.extended, "extended", true, "执行扩展稳定性探测")
	fs.BoolVar(&fl.jsonOut, "json", false, "以 JSON 输出报告")
	fs.StringVar(&fl.outputPath, "output", "", "报告写入文件（默认 stdout）")
	fs.StringVar(&fl.logFile, "log", "", "日志文件路径（滚动）")
	fs.StringVar(&fl.logLevel, "log-level", "", "日志级别 (debug/info/warn/error)")
	fs.StringVar(&fl.archiveDir, "archive", "", "会话存档目录（设置后启用存档）")
	fs.IntVar(&fl.history, "history", 0, "打印最近 N 次存档会话后退出")
	fs.StringVar(&fl.metricsFile, "metrics-file", "", "诊断结束时写入 Prometheus textfile")
	fs.DurationVar(&fl.watch, "watch", 0, "按间隔持续诊断，直到 Ctrl+C（例如 5m）")
	fs.StringVar(&fl.introspect, "introspect", "", "启用本地自省 HTTP 服务（例如 127.0.0.1:6060）")
	fs.BoolVar(&fl.noColor, "no-color", false, "禁用彩色输出")
	fs.BoolVar(&fl.printConfig, "print-config", false, "打印生效配置（YAML）后退出")
	fs.BoolVar(&fl.showVersion, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { fl.set[f.Name] = true })
	return fl, nil
}

// buildOptions 加载配置文件与环境变量，再叠加命令行覆盖
//
// 返回的 cfg 为最终生效配置，与 opts 描述的一致。
func buildOptions(fl *cliFlags) ([]linkdiag.Option, *config.Config, error) {
	base, err := config.Load(fl.configFile)
	if err != nil {
		return nil, nil, err
	}
	if fl.jsonOut {
		base.Output.Format = config.FormatJSON
	}
	if fl.outputPath != "" {
		base.Output.Path = fl.outputPath
	}
	if fl.noColor {
		color.NoColor = true
	}

	opts := []linkdiag.Option{linkdiag.WithConfig(base)}
	if fl.quick {
		opts = append(opts, linkdiag.WithQuick())
	}
	if fl.set["extended"] {
		opts = append(opts, linkdiag.WithExtended(fl.extended))
	}
	if fl.logFile != "" {
		opts = append(opts, linkdiag.WithLogFile(fl.logFile))
	}
	if fl.logLevel != "" {
		opts = append(opts, linkdiag.WithLogLevel(fl.logLevel))
	}
	if fl.archiveDir != "" {
		opts = append(opts, linkdiag.WithArchiveDir(fl.archiveDir))
	}
	if fl.metricsFile != "" {
		opts = append(opts, linkdiag.WithMetricsFile(fl.metricsFile))
	}
	if fl.introspect != "" {
		opts = append(opts, linkdiag.WithIntrospect(fl.introspect))
	}

	cfg, err := linkdiag.Config(opts...)
	if err != nil {
		return nil, nil, err
	}
	return opts, cfg, nil
}
