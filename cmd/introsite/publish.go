package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/introsite/internal/config"
	"github.com/vango-dev/introsite/internal/publish"
)

func publishCmd(dir *string) *cobra.Command {
	var (
		bucket   string
		prefix   string
		region   string
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the build output to S3",
		Long: `Upload every file of the build output to S3.

Credentials come from AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and
AWS_SESSION_TOKEN.

Examples:
  introsite publish --bucket=my-site --region=ap-northeast-1
  introsite publish --bucket=my-site --prefix=releases/v2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*dir)
			if err != nil {
				return err
			}
			if bucket == "" {
				bucket = os.Getenv("PUBLISH_BUCKET")
			}
			client, err := publish.NewS3Client(region, endpoint, os.Getenv)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			uploads, err := publish.New(client, bucket, prefix, nil).Publish(ctx, cfg.OutputPath())
			for _, u := range uploads {
				info(out, "s3://%s/%s", bucket, u.Key)
			}
			if err != nil {
				return err
			}
			success(out, "Published %d files", len(uploads))
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Destination bucket (default PUBLISH_BUCKET)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default AWS_REGION)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "S3-compatible endpoint URL")

	return cmd
}
