// Package main 提供 linkdiag 命令行入口
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/dep2p/go-linkdiag"
	"github.com/dep2p/go-linkdiag/config"
	"github.com/dep2p/go-linkdiag/internal/core/report"
	"github.com/dep2p/go-linkdiag/internal/util/logger"
	"github.com/dep2p/go-linkdiag/pkg/types"
)

var log = logger.Logger("cmd")

// 版本信息，构建时通过 -ldflags 注入
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// 退出码
const (
	exitOK      = 0
	exitError   = 1
	exitProblem = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run 解析参数并执行，返回退出码
//
// 诊断本身完成但整体结论为 FAIL 时返回 exitProblem，便于脚本判断。
func run(args []string, stdout, stderr io.Writer) int {
	fl, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return exitError
	}

	if fl.showVersion {
		fmt.Fprintf(stdout, "linkdiag %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		return exitOK
	}

	opts, cfg, err := buildOptions(fl)
	if err != nil {
		fmt.Fprintf(stderr, "配置错误: %v\n", err)
		return exitError
	}

	if fl.printConfig {
		data, err := cfg.ToYAML()
		if err != nil {
			fmt.Fprintf(stderr, "错误: %v\n", err)
			return exitError
		}
		_, _ = stdout.Write(data)
		return exitOK
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case fl.history > 0:
		return runHistory(ctx, fl.history, opts, stdout, stderr)
	case fl.watch > 0:
		return runWatch(ctx, fl.watch, cfg, opts, stdout, stderr)
	}
	return runDiagnosis(ctx, cfg, opts, stdout, stderr)
}

func runDiagnosis(ctx context.Context, cfg *config.Config, opts []linkdiag.Option, stdout, stderr io.Writer) int {
	log.Info("开始诊断", "version", Version, "extended", cfg.Extended.Enabled)

	r, err := linkdiag.Run(ctx, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "诊断失败: %v\n", err)
		return exitError
	}
	if ctx.Err() != nil {
		fmt.Fprintln(stderr, "诊断已取消，未完成的检查记为 N/A")
	}

	if err := writeReport(cfg.Output, r, stdout); err != nil {
		fmt.Fprintf(stderr, "写入报告失败: %v\n", err)
		return exitError
	}
	if r.Overall == types.SeverityFail {
		return exitProblem
	}
	return exitOK
}

// runWatch 持续诊断；每次会话追加一份报告，退出码取最后一次会话
func runWatch(ctx context.Context, interval time.Duration, cfg *config.Config, opts []linkdiag.Option, stdout, stderr io.Writer) int {
	log.Info("开始持续诊断", "interval", interval, "introspect", cfg.Introspect.Enabled)

	code := exitOK
	err := linkdiag.Watch(ctx, interval, func(r *types.Report) error {
		if err := writeReport(cfg.Output, r, stdout); err != nil {
			return err
		}
		code = exitOK
		if r.Overall == types.SeverityFail {
			code = exitProblem
		}
		return nil
	}, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "持续诊断失败: %v\n", err)
		return exitError
	}
	return code
}

func runHistory(ctx context.Context, n int, opts []linkdiag.Option, stdout, stderr io.Writer) int {
	reports, err := linkdiag.History(ctx, n, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "读取历史失败: %v\n", err)
		return exitError
	}
	if err := report.WriteHistory(stdout, reports); err != nil {
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return exitError
	}
	return exitOK
}

// writeReport 按输出配置写报告；写 stdout 且为终端时启用颜色
func writeReport(out config.OutputConfig, r *types.Report, stdout io.Writer) (err error) {
	w := stdout
	toStdout := out.Path == ""
	if !toStdout {
		f, cerr := os.Create(out.Path)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if out.Format == config.FormatJSON {
		return report.WriteJSON(w, r)
	}
	return report.WriteText(w, r, report.WithColor(toStdout && !color.NoColor))
}
