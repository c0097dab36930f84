// Copyright 2021 Converter Systems LLC. All rights reserved.

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/awcullen/uastream/client"
	"github.com/awcullen/uastream/ua"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "uadump",
		Usage:     "Decode and encode OPC UA binary values",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log decoding details to stderr",
			},
		},
		Commands: []*cli.Command{
			decodeCommand(),
			nodeIDCommand(),
			configCommand(),
		},
	}
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	if !c.Bool("verbose") {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode a value from hex arguments or a binary file",
		ArgsUsage: "[hex bytes...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "variant, datavalue, nodeid, expandednodeid, extensionobject or diagnosticinfo",
				Value:   "variant",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read the bytes from a binary file instead of the arguments",
			},
		},
		Action: decodeAction,
	}
}

func decodeAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var data []byte
	if path := c.String("file"); path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, "read input")
		}
	} else {
		data, err = hex.DecodeString(strings.Join(strings.Fields(strings.Join(c.Args().Slice(), " ")), ""))
		if err != nil {
			return errors.Wrap(err, "parse hex")
		}
	}
	logger.Debug("decoding", zap.String("type", c.String("type")), zap.Int("bytes", len(data)))

	reg := ua.NewTypeRegistry()
	ua.RegisterSubscriptionTypes(reg)
	buf := bytes.NewReader(data)
	dec := ua.NewBinaryDecoder(buf, reg)
	s, err := decodeValue(dec, c.String("type"))
	if err != nil {
		return errors.Wrapf(err, "decode %s", c.String("type"))
	}
	if n := buf.Len(); n > 0 {
		logger.Warn("trailing bytes", zap.Int("bytes", n))
	}
	fmt.Fprintln(c.App.Writer, s)
	return nil
}

func decodeValue(dec *ua.BinaryDecoder, typ string) (string, error) {
	switch strings.ToLower(typ) {
	case "variant":
		var v *ua.Variant
		if err := dec.ReadVariant(&v); err != nil {
			return "", err
		}
		return v.String(), nil
	case "datavalue":
		var v *ua.DataValue
		if err := dec.ReadDataValue(&v); err != nil {
			return "", err
		}
		return v.String(), nil
	case "nodeid":
		var v ua.NodeID
		if err := dec.ReadNodeID(&v); err != nil {
			return "", err
		}
		return v.String(), nil
	case "expandednodeid":
		var v ua.ExpandedNodeID
		if err := dec.ReadExpandedNodeID(&v); err != nil {
			return "", err
		}
		return v.String(), nil
	case "extensionobject":
		var v *ua.ExtensionObject
		if err := dec.ReadExtensionObject(&v); err != nil {
			return "", err
		}
		if v == nil {
			return "Null", nil
		}
		return v.String(), nil
	case "diagnosticinfo":
		var v *ua.DiagnosticInfo
		if err := dec.ReadDiagnosticInfo(&v); err != nil {
			return "", err
		}
		return formatDiagnosticInfo(v), nil
	default:
		return "", ua.BadInvalidArgument
	}
}

func formatDiagnosticInfo(d *ua.DiagnosticInfo) string {
	b := new(strings.Builder)
	for depth := 0; d != nil; depth++ {
		if depth > 0 {
			b.WriteString(" > ")
		}
		fmt.Fprintf(b, "{symbolicId=%d namespaceUri=%d locale=%d localizedText=%d", d.SymbolicID, d.NamespaceURI, d.Locale, d.LocalizedText)
		if d.AdditionalInfo != "" {
			fmt.Fprintf(b, " additionalInfo=%q", d.AdditionalInfo)
		}
		if d.InnerStatusCode != ua.Good {
			fmt.Fprintf(b, " innerStatusCode=%s", d.InnerStatusCode)
		}
		b.WriteString("}")
		d = d.InnerDiagnosticInfo
	}
	return b.String()
}

func nodeIDCommand() *cli.Command {
	return &cli.Command{
		Name:      "nodeid",
		Usage:     "Encode a NodeId or ExpandedNodeId string as hex",
		ArgsUsage: "<nodeid>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "expanded",
				Usage: "Encode as an ExpandedNodeId",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("nodeid requires exactly one argument", 2)
			}
			buf := &bytes.Buffer{}
			enc := ua.NewBinaryEncoder(buf, nil)
			if c.Bool("expanded") {
				id, err := ua.ParseExpandedNodeID(c.Args().First())
				if err != nil {
					return errors.Wrap(err, "parse expanded node id")
				}
				if err := enc.WriteExpandedNodeID(id); err != nil {
					return err
				}
			} else {
				id, err := ua.ParseNodeID(c.Args().First())
				if err != nil {
					return errors.Wrap(err, "parse node id")
				}
				if err := enc.WriteNodeID(id); err != nil {
					return err
				}
			}
			fmt.Fprintln(c.App.Writer, hexBytes(buf.Bytes()))
			return nil
		},
	}
}

func hexBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, x := range b {
		parts[i] = hex.EncodeToString([]byte{x})
	}
	return strings.Join(parts, " ")
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:      "config",
		Usage:     "Validate a client config file",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("config requires exactly one argument", 2)
			}
			logger, err := newLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync()
			cfg, err := client.LoadConfig(c.Args().First())
			if err != nil {
				return err
			}
			logger.Debug("config loaded", zap.String("path", c.Args().First()), zap.Bool("trace", cfg.Trace))
			fmt.Fprintf(c.App.Writer, "ok: %d options\n", len(cfg.Options()))
			return nil
		},
	}
}
