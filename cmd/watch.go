package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haierkeys/resource-usage-service/internal/client"
	"github.com/haierkeys/resource-usage-service/pkg/poller"

	"github.com/gookit/goutil/dump"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type watchFlags struct {
	addr     string // Service address // 服务地址
	limit    int    // Ranking length // 排行长度
	interval string // Poll interval // 轮询间隔
}

func init() {
	watchEnv := new(watchFlags)

	var watchCommand = &cobra.Command{
		Use:   "watch [-a address] [-l limit] [-i interval]",
		Short: "Watch popular resource rankings // 监视热门资源排行",
		Run: func(cmd *cobra.Command, args []string) {
			interval, err := time.ParseDuration(watchEnv.interval)
			if err != nil || interval <= 0 {
				interval = 10 * time.Second
			}

			popularClient := client.NewPopularClient(watchEnv.addr, 10*time.Second)

			p := poller.New(&poller.Config{
				Interval:     interval,
				FetchTimeout: 10 * time.Second,
				StartupRun:   true,
			}, func(ctx context.Context) (interface{}, error) {
				return popularClient.Fetch(ctx, watchEnv.limit)
			}, bootstrapLogger)

			p.Start()
			defer p.Stop()

			bootstrapLogger.Info("watching popular rankings",
				zap.String("addr", watchEnv.addr),
				zap.Int("limit", watchEnv.limit),
				zap.Duration("interval", interval))

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			var lastShown time.Time
			for {
				select {
				case <-quit:
					return
				case <-ticker.C:
					if err := p.LastError(); err != nil {
						bootstrapLogger.Error("ranking fetch failed", zap.Error(err))
						continue
					}
					snapshot, refreshedAt := p.Snapshot()
					if snapshot == nil || !refreshedAt.After(lastShown) {
						continue
					}
					lastShown = refreshedAt

					fmt.Printf("\n== popular resources @ %s ==\n", refreshedAt.Format(time.RFC3339))
					dump.P(snapshot)
				}
			}
		},
	}

	rootCmd.AddCommand(watchCommand)
	fs := watchCommand.Flags()
	fs.StringVarP(&watchEnv.addr, "addr", "a", "http://127.0.0.1:9000", "service address")
	fs.IntVarP(&watchEnv.limit, "limit", "l", 5, "ranking length")
	fs.StringVarP(&watchEnv.interval, "interval", "i", "10s", "poll interval")
}
