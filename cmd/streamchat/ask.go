package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leofalp/chatstream/core/session"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var imagePath string

	askCmd := &cobra.Command{
		Use:   "ask [prompt...]",
		Short: "Send a single prompt and stream the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			stopMetrics := application.serveMetrics(cmd.Context())
			defer stopMetrics()

			image, err := readImage(imagePath)
			if err != nil {
				return err
			}
			provider, err := application.initialProvider()
			if err != nil {
				return err
			}

			svc := application.newSession(provider)
			defer svc.Close()

			updates, unsubscribe := svc.Subscribe()
			output := newRenderer(cmd.OutOrStdout())
			rendered := make(chan struct{})
			go func() {
				output.run(updates)
				close(rendered)
			}()

			err = svc.Send(cmd.Context(), session.Request{Text: strings.Join(args, " "), Image: image})
			unsubscribe()
			<-rendered
			if err != nil {
				return err
			}

			if lastError := svc.Snapshot().LastError; lastError != "" {
				return errReplyFailed(lastError)
			}
			return nil
		},
	}

	askCmd.Flags().StringVarP(&imagePath, "image", "i", "", "attach an image (JPEG, PNG or GIF)")
	return askCmd
}
