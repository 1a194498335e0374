package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillstore/skillstore/internal/core/manifest"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <manifest.json>",
	Short: "Verify a plugin or skill manifest",
	Long: `Check a plugin or skill manifest file: version, required fields and the
HMAC signature. Use "-" to read from stdin.

With --sign the manifest is signed with the verification key instead and
written to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		data, err := readManifestFile(cmd, args[0])
		if err != nil {
			return err
		}
		m, err := decodeManifest(data)
		if err != nil {
			return err
		}

		if sign, _ := cmd.Flags().GetBool("sign"); sign {
			return signManifest(cmd.OutOrStdout(), data, d.runtime.VerifyKey)
		}

		skip, _ := cmd.Flags().GetBool("skip-signature")
		opts := manifest.VerifyOptions{SkipSignature: skip, Key: d.runtime.VerifyKey}

		var res manifest.Result
		var desc string
		switch m := m.(type) {
		case *manifest.PluginManifest:
			res = manifest.Verify(m, opts)
			desc = fmt.Sprintf("plugin %s@%s, %d skills", m.Plugin.Slug, m.Plugin.Version, len(m.Skills))
		case *manifest.SkillManifest:
			res = manifest.VerifySkillManifest(m, opts)
			desc = fmt.Sprintf("skill %s@%s", m.Skill.Slug, m.Skill.Version)
		}
		if !res.Valid {
			return res.Err
		}

		rep := d.reporter(cmd)
		if skip {
			rep.Warn("Signature verification skipped")
		}
		rep.Success(fmt.Sprintf("Manifest is valid (%s)", desc))
		return nil
	},
}

func readManifestFile(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return data, nil
}

// decodeManifest returns a *PluginManifest or *SkillManifest depending on
// which top-level object the document carries.
func decodeManifest(data []byte) (any, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	var m any
	switch {
	case fields["plugin"] != nil:
		m = &manifest.PluginManifest{}
	case fields["skill"] != nil:
		m = &manifest.SkillManifest{}
	default:
		return nil, errors.New("parsing manifest: neither a plugin nor a skill manifest")
	}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}

// signManifest signs the document as written and prints it with the
// signature set. Fields the manifest types do not model are kept.
func signManifest(out io.Writer, data []byte, key string) error {
	sig, err := manifest.SignDocument(data, key)
	if err != nil {
		return fmt.Errorf("signing manifest: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}
	fields["signature"], err = json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("marshaling signature: %w", err)
	}
	signed, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	fmt.Fprintln(out, string(signed))
	return nil
}

func init() {
	verifyCmd.Flags().Bool("skip-signature", false, "Check structure only")
	verifyCmd.Flags().Bool("sign", false, "Sign the manifest and print it")
	verifyCmd.MarkFlagsMutuallyExclusive("skip-signature", "sign")
	rootCmd.AddCommand(verifyCmd)
}
