package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/mailback/internal/decode"
	"github.com/nhle/mailback/internal/message"
	"github.com/nhle/mailback/internal/theme"
)

func newDecodeCmd(a *app) *cobra.Command {
	var (
		label    string
		maxDepth int
		raw      bool
	)

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a transfer-encoded body and print its text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			if maxDepth == 0 {
				maxDepth = a.cfg.Decode.MaxDepth
			}

			text := string(data)
			var out string
			switch {
			case label != "":
				d := decode.Decoder{MaxDepth: maxDepth}
				out = d.Decode(text, decode.Label(label))
			case raw:
				d := decode.Decoder{MaxDepth: maxDepth}
				out = d.Decode(text, decode.Classify(text))
			default:
				out = message.Renderer{MaxDepth: maxDepth}.Text(text)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "force an encoding (multipart, base64, quoted-printable, plain)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum multipart nesting to decode")
	cmd.Flags().BoolVar(&raw, "raw", false, "print decoded text without flattening HTML")

	return cmd
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [file]",
		Short: "Print the detected transfer encoding of a body",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			label := decode.Classify(string(data)).String()
			_, err = fmt.Fprintln(cmd.OutOrStdout(), theme.LabelStyle(label).Render(label))
			return err
		},
	}
}

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render [file]",
		Short: "Render a complete RFC 5322 message as text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			msg, err := message.Renderer{MaxDepth: a.cfg.Decode.MaxDepth}.Parse(data)
			if err != nil {
				return err
			}

			date := ""
			if !msg.Date.IsZero() {
				date = msg.Date.Format("Mon, 02 Jan 2006 15:04")
			}
			out := theme.RenderMessage(1, msg.Subject, msg.From, date, msg.Text())
			for _, att := range msg.Attachments {
				out += theme.MetaStyle.Render(fmt.Sprintf(
					"attachment: %s (%s, %d B)", att.Filename, att.MIMEType, att.Size,
				)) + "\n"
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}
