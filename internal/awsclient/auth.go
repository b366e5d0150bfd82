package awsclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dnitsch/s3-credentials/internal/config"
	"github.com/dnitsch/s3-credentials/internal/util"
	ini "gopkg.in/ini.v1"
)

var ErrInvalidAuth = errors.New("invalid auth file")

const (
	iniAccessKey    = "aws_access_key_id"
	iniSecretKey    = "aws_secret_access_key"
	iniSessionToken = "aws_session_token"
)

// Credentials is the JSON shape printed by create and accepted by --auth.
type Credentials struct {
	AccessKeyId     string `json:"AccessKeyId"`
	SecretAccessKey string `json:"SecretAccessKey"`
	SessionToken    string `json:"SessionToken,omitempty"`
}

// LoadAuthFile reads credentials from a JSON document or from an INI file
// laid out like ~/.aws/credentials. For INI the [default] section wins,
// otherwise the first section holding an access key is used.
func LoadAuthFile(path string) (Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("%s, %w", err, ErrInvalidAuth)
	}
	return ParseAuth(b)
}

func ParseAuth(b []byte) (Credentials, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return parseJSONAuth(trimmed)
	}
	return parseINIAuth(trimmed)
}

func parseJSONAuth(b []byte) (Credentials, error) {
	creds := Credentials{}
	if err := json.Unmarshal(b, &creds); err != nil {
		return Credentials{}, fmt.Errorf("%s, %w", err, ErrInvalidAuth)
	}
	return creds.validate()
}

func parseINIAuth(b []byte) (Credentials, error) {
	cfg, err := ini.Load(b)
	if err != nil {
		return Credentials{}, fmt.Errorf("%s, %w", err, ErrInvalidAuth)
	}

	section := cfg.Section(config.DEFAULT_SECTION)
	if !section.HasKey(iniAccessKey) {
		section = nil
		for _, s := range cfg.Sections() {
			if s.HasKey(iniAccessKey) {
				util.Warn("auth file has no [default] credentials, using section", "section", s.Name())
				section = s
				break
			}
		}
	}
	if section == nil {
		return Credentials{}, fmt.Errorf("no section with %s, %w", iniAccessKey, ErrInvalidAuth)
	}

	return Credentials{
		AccessKeyId:     section.Key(iniAccessKey).String(),
		SecretAccessKey: section.Key(iniSecretKey).String(),
		SessionToken:    section.Key(iniSessionToken).String(),
	}.validate()
}

func (c Credentials) validate() (Credentials, error) {
	if c.AccessKeyId == "" || c.SecretAccessKey == "" {
		return Credentials{}, fmt.Errorf("both access key id and secret access key are required, %w", ErrInvalidAuth)
	}
	return c, nil
}

// WriteINI writes creds as a credentials file profile named section.
func WriteINI(w io.Writer, creds Credentials, section string) error {
	cfg := ini.Empty()
	sct, err := cfg.NewSection(section)
	if err != nil {
		return err
	}
	sct.Key(iniAccessKey).SetValue(creds.AccessKeyId)
	sct.Key(iniSecretKey).SetValue(creds.SecretAccessKey)
	if creds.SessionToken != "" {
		sct.Key(iniSessionToken).SetValue(creds.SessionToken)
	}
	_, err = cfg.WriteTo(w)
	return err
}
