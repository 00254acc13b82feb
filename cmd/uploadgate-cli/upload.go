package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/makelab/uploadgate/clientcli"
)

var uploadContentType string

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path> <project-id>",
	Short: "Upload a model file under a project",
	Long: `Upload a model file to the server under the given project.

Accepted file types: .stl, .obj, .3mf, .step, .stp

Examples:
  uploadgate-cli upload ./bracket.stl workshop
  uploadgate-cli upload --content-type model/stl ./part.stl demo`,
	Args: cobra.ExactArgs(2),
	RunE: runUpload,
}

var uploadVideoCmd = &cobra.Command{
	Use:   "upload-video <local-path> <context-id>",
	Short: "Upload a video under a gallery context",
	Long: `Upload a video to the server under the given gallery context.

Accepted types: video/mp4, video/mpeg, video/quicktime, video/webm

Examples:
  uploadgate-cli upload-video ./clip.mp4 spring-show`,
	Args: cobra.ExactArgs(2),
	RunE: runUploadVideo,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadContentType, "content-type", "", "override content-type")
	uploadVideoCmd.Flags().StringVar(&uploadContentType, "content-type", "", "override content-type")
}

func runUpload(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.Upload(context.Background(), clientcli.UploadOptions{
		LocalPath:   args[0],
		ProjectID:   args[1],
		ContentType: uploadContentType,
	})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	return getFormatter().FormatUpload(os.Stdout, result)
}

func runUploadVideo(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.UploadVideo(context.Background(), clientcli.VideoUploadOptions{
		LocalPath:   args[0],
		ContextID:   args[1],
		ContentType: uploadContentType,
	})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	return getFormatter().FormatUpload(os.Stdout, result)
}
