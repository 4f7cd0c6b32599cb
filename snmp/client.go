package snmp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/logingood/yt-snmp-checks/models"
	"go.uber.org/zap"
)

const defaultPort = 161

// Client is the request surface the walker and enricher need. Each call
// blocks until the agent answers or the session timeout expires.
type Client interface {
	Get(oid models.OID) (models.Value, error)
	GetNext(oid models.OID) ([]models.WalkEntry, error)
	Close() error
}

// Session is a Client backed by gosnmp.
type Session struct {
	client *gosnmp.GoSNMP
	logger *zap.Logger
	device *models.Device
}

var authProtocols = map[string]gosnmp.SnmpV3AuthProtocol{
	"MD5":     gosnmp.MD5,
	"SHA":     gosnmp.SHA,
	"SHA1":    gosnmp.SHA,
	"SHA224":  gosnmp.SHA224,
	"SHA-224": gosnmp.SHA224,
	"SHA256":  gosnmp.SHA256,
	"SHA-256": gosnmp.SHA256,
	"SHA384":  gosnmp.SHA384,
	"SHA-384": gosnmp.SHA384,
	"SHA512":  gosnmp.SHA512,
	"SHA-512": gosnmp.SHA512,
}

var privProtocols = map[string]gosnmp.SnmpV3PrivProtocol{
	"DES":     gosnmp.DES,
	"AES":     gosnmp.AES,
	"AES128":  gosnmp.AES,
	"AES192":  gosnmp.AES192,
	"AES-192": gosnmp.AES192,
	"AES256":  gosnmp.AES256,
	"AES-256": gosnmp.AES256,
}

// New builds a session for device. Retries are disabled: a single timeout
// ends the run.
func New(ctx context.Context, device *models.Device, timeout time.Duration, logger *zap.Logger) (*Session, error) {
	if device.Hostname == nil || *device.Hostname == "" {
		return nil, ErrMissingHostname
	}

	port := device.Port
	if port == 0 {
		port = defaultPort
	}

	g := &gosnmp.GoSNMP{
		Context:   ctx,
		Port:      uint16(port),
		Retries:   0,
		Timeout:   timeout,
		Transport: "udp",
		Target:    *device.Hostname,
		MaxOids:   gosnmp.MaxOids,
	}
	if device.Transport != nil && *device.Transport != "" {
		g.Transport = strings.TrimSuffix(*device.Transport, "6")
	}

	switch NormalizeVersion(models.StringValue(device.SnmpVer)) {
	case "1":
		g.Version = gosnmp.Version1
		if err := setCommunity(g, device); err != nil {
			return nil, err
		}
	case "2c":
		g.Version = gosnmp.Version2c
		if err := setCommunity(g, device); err != nil {
			return nil, err
		}
	case "3":
		if err := setUSM(g, device); err != nil {
			return nil, err
		}
	default:
		logger.Error("bad snmp version", zap.String("version", models.StringValue(device.SnmpVer)))
		return nil, fmt.Errorf("%w %q", ErrUnsupportedVersion, models.StringValue(device.SnmpVer))
	}

	return &Session{
		client: g,
		logger: logger,
		device: device,
	}, nil
}

// NormalizeVersion accepts the spellings used on the command line and in
// LibreNMS ("1", "v1", "2c", "v2c", "3", "v3"). An empty version means 1.
func NormalizeVersion(v string) string {
	v = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(v)), "v")
	if v == "" {
		return "1"
	}
	return v
}

func setCommunity(g *gosnmp.GoSNMP, device *models.Device) error {
	if device.Community == nil || *device.Community == "" {
		return ErrMissingCommunity
	}
	g.Community = *device.Community
	return nil
}

func setUSM(g *gosnmp.GoSNMP, device *models.Device) error {
	if device.AuthName == nil || *device.AuthName == "" || device.AuthPass == nil || *device.AuthPass == "" {
		return ErrMissingV3User
	}

	authAlgo := strings.ToUpper(models.StringValue(device.AuthAlgo))
	if authAlgo == "" {
		authAlgo = "MD5"
	}
	authProto, ok := authProtocols[authAlgo]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownAuthProto, authAlgo)
	}

	params := &gosnmp.UsmSecurityParameters{
		UserName:                 *device.AuthName,
		AuthenticationProtocol:   authProto,
		AuthenticationPassphrase: *device.AuthPass,
		PrivacyProtocol:          gosnmp.NoPriv,
	}

	privAlgo := strings.ToUpper(models.StringValue(device.CryptoAlgo))
	privPass := models.StringValue(device.CryptoPass)

	level := models.StringValue(device.AuthLevel)
	if level == "" {
		level = "authNoPriv"
		if privAlgo != "" && privPass != "" {
			level = "authPriv"
		}
	}

	switch level {
	case "authNoPriv":
		g.MsgFlags = gosnmp.AuthNoPriv
	case "authPriv":
		privProto, ok := privProtocols[privAlgo]
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownPrivProto, privAlgo)
		}
		params.PrivacyProtocol = privProto
		params.PrivacyPassphrase = privPass
		g.MsgFlags = gosnmp.AuthPriv
	default:
		return fmt.Errorf("%w %q", ErrUnknownAuthLevel, level)
	}

	g.Version = gosnmp.Version3
	g.SecurityModel = gosnmp.UserSecurityModel
	g.SecurityParameters = params
	return nil
}

func (s *Session) Connect() error {
	if err := s.client.Connect(); err != nil {
		s.logger.Error("failed to connect", zap.String("target", s.client.Target), zap.Error(err))
		return &SNMPError{Op: "connect", Target: s.client.Target, Wrapped: fmt.Errorf("%w: %v", models.ErrTransport, err)}
	}
	return nil
}

func (s *Session) Close() error {
	if s.client.Conn == nil {
		return nil
	}
	return s.client.Conn.Close()
}

func (s *Session) Get(oid models.OID) (models.Value, error) {
	packet, err := s.client.Get([]string{oid.String()})
	if err != nil {
		return models.Value{}, s.requestError("get", oid, err)
	}
	if err := s.checkPacket("get", oid, packet); err != nil {
		return models.Value{}, err
	}
	entry, err := toWalkEntry(packet.Variables[0])
	if err != nil {
		return models.Value{}, &SNMPError{Op: "get", Target: oid.String(), Wrapped: err}
	}
	return entry.Value, nil
}

func (s *Session) GetNext(oid models.OID) ([]models.WalkEntry, error) {
	packet, err := s.client.GetNext([]string{oid.String()})
	if err != nil {
		return nil, s.requestError("getnext", oid, err)
	}
	// v1 agents answer noSuchName past the end of the MIB instead of
	// endOfMibView.
	if packet.Error == gosnmp.NoSuchName && s.client.Version == gosnmp.Version1 {
		s.logger.Debug("walk terminated with noSuchName", zap.Stringer("oid", oid))
		return []models.WalkEntry{{OID: oid, Value: models.Value{Kind: models.KindEndOfMibView}}}, nil
	}
	if err := s.checkPacket("getnext", oid, packet); err != nil {
		return nil, err
	}

	entries := make([]models.WalkEntry, 0, len(packet.Variables))
	for _, pdu := range packet.Variables {
		entry, err := toWalkEntry(pdu)
		if err != nil {
			return nil, &SNMPError{Op: "getnext", Target: oid.String(), Wrapped: err}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Session) requestError(op string, oid models.OID, err error) error {
	s.logger.Error("bad response", zap.String("op", op), zap.String("target", s.client.Target), zap.Stringer("oid", oid), zap.Error(err))
	return &SNMPError{Op: op, Target: s.client.Target, Wrapped: fmt.Errorf("%w: %v", models.ErrTransport, err)}
}

func (s *Session) checkPacket(op string, oid models.OID, packet *gosnmp.SnmpPacket) error {
	if packet.Error != gosnmp.NoError {
		s.logger.Error("error status in response",
			zap.String("op", op),
			zap.Stringer("oid", oid),
			zap.Any("status", packet.Error),
			zap.Uint8("index", packet.ErrorIndex))
		return &SNMPError{Op: op, Target: s.client.Target, Wrapped: fmt.Errorf("%w %v", ErrErrorStatus, packet.Error)}
	}
	if len(packet.Variables) == 0 {
		return &SNMPError{Op: op, Target: s.client.Target, Wrapped: ErrEmptyResponse}
	}
	return nil
}
