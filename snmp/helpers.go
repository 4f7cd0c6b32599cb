package snmp

import (
	"fmt"

	"github.com/gosnmp/gosnmp"
	"github.com/logingood/yt-snmp-checks/models"
)

// toWalkEntry converts a gosnmp varbind into the package's typed value.
func toWalkEntry(pdu gosnmp.SnmpPDU) (models.WalkEntry, error) {
	oid, err := models.ParseOID(pdu.Name)
	if err != nil {
		return models.WalkEntry{}, err
	}
	value, err := toValue(pdu)
	if err != nil {
		return models.WalkEntry{}, err
	}
	return models.WalkEntry{OID: oid, Value: value}, nil
}

func toValue(pdu gosnmp.SnmpPDU) (models.Value, error) {
	switch pdu.Type {
	case gosnmp.Integer, gosnmp.Counter32, gosnmp.Gauge32, gosnmp.TimeTicks,
		gosnmp.Counter64, gosnmp.Uinteger32:
		return models.Value{Kind: models.KindInteger, Int: gosnmp.ToBigInt(pdu.Value).Int64()}, nil
	case gosnmp.OctetString:
		b, ok := pdu.Value.([]byte)
		if !ok {
			return models.Value{}, fmt.Errorf("%w: octet string %s carries %T", models.ErrProtocol, pdu.Name, pdu.Value)
		}
		return models.Value{Kind: models.KindOctetString, Bytes: b}, nil
	case gosnmp.ObjectIdentifier:
		s, ok := pdu.Value.(string)
		if !ok {
			return models.Value{}, fmt.Errorf("%w: object identifier %s carries %T", models.ErrProtocol, pdu.Name, pdu.Value)
		}
		oid, err := models.ParseOID(s)
		if err != nil {
			return models.Value{}, err
		}
		return models.Value{Kind: models.KindObjectIdentifier, OID: oid}, nil
	case gosnmp.EndOfMibView:
		return models.Value{Kind: models.KindEndOfMibView}, nil
	case gosnmp.NoSuchObject:
		return models.Value{Kind: models.KindNoSuchObject}, nil
	case gosnmp.NoSuchInstance:
		return models.Value{Kind: models.KindNoSuchInstance}, nil
	default:
		return models.Value{Kind: models.KindOther}, nil
	}
}
