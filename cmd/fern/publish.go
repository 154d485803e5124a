package main

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	clientdist "github.com/fern-ui/fern/client/dist"
)

func publishCmd() *cobra.Command {
	var (
		bucket       string
		key          string
		region       string
		cacheControl string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the client bundle to S3",
		Long: `Upload the embedded JavaScript client to an S3 bucket, for serving
the bundle from a CDN instead of the fern server itself.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			opts := []func(*awsconfig.LoadOptions) error{}
			if region != "" {
				opts = append(opts, awsconfig.WithRegion(region))
			}
			cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
			if err != nil {
				return fmt.Errorf("load aws config: %w", err)
			}
			client := s3.NewFromConfig(cfg)

			sum := sha256.Sum256(clientdist.FernJS)
			digest := hex.EncodeToString(sum[:8])
			if key == "" {
				key = fmt.Sprintf("fern/client-%s-%s.js", version, digest)
			}

			_, err = client.PutObject(ctx, &s3.PutObjectInput{
				Bucket:       aws.String(bucket),
				Key:          aws.String(key),
				Body:         bytes.NewReader(clientdist.FernJS),
				ContentType:  aws.String("application/javascript; charset=utf-8"),
				CacheControl: aws.String(cacheControl),
				Metadata: map[string]string{
					"fern-version": version,
					"fern-digest":  digest,
				},
			})
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}

			fmt.Printf("uploaded %d bytes to s3://%s/%s\n", len(clientdist.FernJS), bucket, key)
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "Target S3 bucket (required)")
	cmd.Flags().StringVarP(&key, "key", "k", "", "Object key, defaults to a versioned name")
	cmd.Flags().StringVar(&region, "region", "", "AWS region, defaults to the environment")
	cmd.Flags().StringVar(&cacheControl, "cache-control", "public, max-age=31536000, immutable", "Cache-Control header for the object")
	cmd.MarkFlagRequired("bucket")

	return cmd
}
