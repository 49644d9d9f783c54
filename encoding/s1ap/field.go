// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package s1ap

import (
	"github.com/hhorai/mme/encoding/per"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// field decodes one field of a container. Its value is looked up in the
// registry unless raw is set.
/*
ProtocolIE-Field {S1AP-PROTOCOL-IES : IEsSetParam} ::= SEQUENCE {
    id              S1AP-PROTOCOL-IES.&id               ({IEsSetParam}),
    criticality     S1AP-PROTOCOL-IES.&criticality      ({IEsSetParam}{@id}),
    value           S1AP-PROTOCOL-IES.&Value            ({IEsSetParam}{@id})
}

ProtocolExtensionField {S1AP-PROTOCOL-EXTENSION : ExtensionSetParam} ::= SEQUENCE {
    id                  S1AP-PROTOCOL-EXTENSION.&id             ({ExtensionSetParam}),
    criticality         S1AP-PROTOCOL-EXTENSION.&criticality    ({ExtensionSetParam}{@id}),
    extensionValue      S1AP-PROTOCOL-EXTENSION.&Extension      ({ExtensionSetParam}{@id})
}
*/
func (d *decoder) field(c *per.BitCursor, raw bool) (ie *IE, err error) {

	id, err := per.DecConstrainedWholeNumber(c, 0, maxProtocolIEs)
	if err != nil {
		err = errors.Wrap(err, "protocol IE id")
		return
	}
	crit, err := decCriticality(c)
	if err != nil {
		err = errors.Wrapf(err, "criticality of IE id=%d", id)
		return
	}
	b, err := per.DecOpenType(c)
	if err != nil {
		err = errors.Wrapf(err, "value of IE id=%d", id)
		return
	}

	ie = &IE{ID: ProtocolIEID(id), Criticality: crit}

	if raw {
		ie.Presence = PresenceOptional
		ie.Value = &RawValue{Bytes: b}
		return
	}

	t, ok := registry[ie.ID]
	if !ok {
		if d.opts.unsupportedIE() == PolicyAbort {
			ie = nil
			err = &UnsupportedIEError{ID: ProtocolIEID(id)}
			return
		}
		d.log.WithFields(logrus.Fields{
			"id":          id,
			"criticality": crit,
			"length":      len(b),
		}).Warn("unsupported IE kept opaque")
		ie.Presence = PresenceOptional
		ie.Value = &RawValue{Bytes: b}
		return
	}

	ie.Presence = t.presence
	v := t.new()
	if err = d.value(v, b, t.name); err != nil {
		v.Free()
		ie = nil
		return
	}
	ie.Value = v
	return
}

func encField(c *per.BitCursor, ie *IE) (err error) {

	if ie.Value == nil {
		return errors.Errorf("encode %s: IE has no value", IEName(ie.ID))
	}

	if err = per.EncConstrainedWholeNumber(c, int64(ie.ID), 0, maxProtocolIEs); err != nil {
		return errors.Wrap(err, "protocol IE id")
	}
	if err = encCriticality(c, ie.Criticality); err != nil {
		return errors.Wrapf(err, "criticality of %s", IEName(ie.ID))
	}
	if err = per.EncOpenType(c, ie.Value.encode); err != nil {
		return errors.Wrapf(err, "encode %s", IEName(ie.ID))
	}
	return
}
