package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/prototext"

	"github.com/anirudhraja/visitortoken"
	"github.com/anirudhraja/visitortoken/registry"
	"github.com/anirudhraja/visitortoken/schema"
)

func schemaCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the token schema",
		Long: `Print the visitor token schema as a text-format FileDescriptorProto.

With --check, the token layout is validated against the schema instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.Default()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if check {
				if err := visitortoken.ValidateRecipe(visitortoken.Recipe(visitortoken.Params{}), reg); err != nil {
					return fmt.Errorf("token layout does not match %s: %w", schema.VisitorProtoName, err)
				}
				fmt.Fprintf(out, "token layout matches %s\n", schema.VisitorProtoName)
				return nil
			}

			fdp, err := reg.FileDescriptorProto(schema.VisitorProtoName)
			if err != nil {
				return err
			}
			// validate before printing
			if _, err := reg.FileDescriptor(schema.VisitorProtoName); err != nil {
				return err
			}
			b, err := prototext.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(fdp)
			if err != nil {
				return err
			}
			_, err = out.Write(b)
			return err
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Validate the token layout against the schema")

	return cmd
}
