package main

import (
	"context"
	"io"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/makelab/uploadgate/clientcli"
)

var (
	downloadOutput string
	downloadStdout bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <storage-path> [local-path]",
	Short: "Download a stored object",
	Long: `Download a stored object through a fresh signed URL.

Examples:
  uploadgate-cli download uploads/u1/workshop/abc_bracket.stl
  uploadgate-cli download uploads/u1/workshop/abc_bracket.stl ./bracket.stl
  uploadgate-cli download --stdout uploads/u1/workshop/abc_bracket.stl > bracket.stl`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDownload,
}

var signCmd = &cobra.Command{
	Use:   "sign <storage-path>",
	Short: "Print a fresh signed download URL",
	Long: `Ask the server for a fresh time-limited signed URL for a stored
object and print it without fetching the content.

Examples:
  uploadgate-cli sign uploads/u1/workshop/abc_bracket.stl`,
	Args: cobra.ExactArgs(1),
	RunE: runSign,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file path")
	downloadCmd.Flags().BoolVar(&downloadStdout, "stdout", false, "write to stdout")
}

func runDownload(_ *cobra.Command, args []string) error {
	storagePath := args[0]

	// Determine local path
	localPath := ""
	if len(args) > 1 {
		localPath = args[1]
	}
	if downloadOutput != "" {
		localPath = downloadOutput
	}
	if downloadStdout {
		localPath = "-"
	}

	// If no local path specified, derive from storage path
	if localPath == "" {
		localPath = path.Base(storagePath)
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	result, reader, err := client.Download(context.Background(), clientcli.DownloadOptions{
		StoragePath: storagePath,
		LocalPath:   localPath,
	})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	// If stdout, write content to stdout
	if reader != nil {
		defer func() { _ = reader.Close() }()
		if _, err := io.Copy(os.Stdout, reader); err != nil {
			return err
		}
		// Don't print metadata when writing to stdout (unless JSON mode)
		if jsonOutput {
			return getFormatter().FormatDownload(os.Stderr, result)
		}
		return nil
	}

	return getFormatter().FormatDownload(os.Stdout, result)
}

func runSign(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	url, err := client.SignedURL(context.Background(), args[0])
	if err != nil {
		return handleError(os.Stderr, err)
	}

	return getFormatter().FormatSignedURL(os.Stdout, url)
}
