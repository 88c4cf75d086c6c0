package validation_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/petersg83/trackdechets/internal/bsda"
	"github.com/petersg83/trackdechets/internal/bsda/validation"
	"github.com/petersg83/trackdechets/pkg/domain"
)

// =============================================================================
// Synchronous Parse Test Suite
// =============================================================================
// Justification for unit tests: the sync rule group carries stage-dependent
// conditional requirements (plates, récépissé, operation modes) that need to
// be pinned per signature stage, which is impractical through the CLI.

type ParseSuite struct {
	suite.Suite
}

func TestParseSuite(t *testing.T) {
	suite.Run(t, new(ParseSuite))
}

func (s *ParseSuite) issues(err error) []validation.Issue {
	s.Require().Error(err)
	var ruleErr *validation.ValidationError
	s.Require().ErrorAs(err, &ruleErr)
	return ruleErr.Issues
}

// =============================================================================
// Valid documents
// =============================================================================

func (s *ParseSuite) TestValidDocuments() {
	s.Run("all data present", func() {
		parsed, err := validation.Parse(validBsda(), validation.Context{})
		s.NoError(err)
		s.NotNil(parsed.WasteCode)
	})

	s.Run("foreign transporter with null recepisse fields", func() {
		b := validBsda()
		b.Transporters = []bsda.Transporter{{
			Number:                      1,
			TransporterCompanyName:      ptr("transporteur BE"),
			TransporterCompanyVatNumber: ptr(foreignVat),
		}}
		_, err := validation.Parse(b, validation.Context{})
		s.NoError(err)
	})

	s.Run("recepisse absent when transport mode is not ROAD", func() {
		b := validBsda()
		t := &b.Transporters[0]
		t.TransporterRecepisseNumber = nil
		t.TransporterRecepisseDepartment = nil
		t.TransporterRecepisseValidityLimit = nil
		t.TransporterTransportMode = ptr(bsda.TransportModeAir)

		_, err := validation.Parse(b, validation.Context{CurrentSignatureType: bsda.SignatureTransport})
		s.NoError(err)
	})

	s.Run("plates absent when transport mode is not ROAD", func() {
		b := validBsda()
		b.Transporters[0].TransporterTransportMode = ptr(bsda.TransportModeAir)
		b.Transporters[0].TransporterTransportPlates = nil

		_, err := validation.Parse(b, validation.Context{CurrentSignatureType: bsda.SignatureTransport})
		s.NoError(err)
	})

	s.Run("ROAD mode with plates defined", func() {
		b := validBsda()
		b.Transporters[0].TransporterTransportMode = ptr(bsda.TransportModeRoad)
		b.Transporters[0].TransporterTransportPlates = []string{"TRANSPORTER-PLATES"}

		_, err := validation.Parse(b, validation.Context{CurrentSignatureType: bsda.SignatureTransport})
		s.NoError(err)
	})

	s.Run("recepisse exemption waives the requirement", func() {
		b := validBsda()
		t := &b.Transporters[0]
		t.TransporterCompanySiret = ptr(emitterSiret)
		t.TransporterRecepisseIsExempted = ptr(true)
		t.TransporterRecepisseNumber = nil
		t.TransporterRecepisseDepartment = nil
		t.TransporterRecepisseValidityLimit = nil

		_, err := validation.Parse(b, validation.Context{CurrentSignatureType: bsda.SignatureTransport})
		s.NoError(err)
	})

	s.Run("normalization turns blank strings into nulls", func() {
		b := validBsda()
		b.EmitterCustomInfo = ptr("   ")
		b.Transporters[0].TransporterCustomInfo = ptr("  ")
		b.Transporters[0].TransporterCompanyContact = ptr("  Luc Transport ")
		b.Intermediaries = []bsda.IntermediaryCompany{{
			Siret: ptr(producerSiret),
			Name:  ptr("  Négoce SARL  "),
			Mail:  ptr("   "),
		}}
		parsed, err := validation.Parse(b, validation.Context{})
		s.NoError(err)
		s.Nil(parsed.EmitterCustomInfo)
		s.Nil(parsed.Transporters[0].TransporterCustomInfo)
		s.Equal("Luc Transport", *parsed.Transporters[0].TransporterCompanyContact)
		s.Equal("Négoce SARL", *parsed.Intermediaries[0].Name)
		s.Nil(parsed.Intermediaries[0].Mail)
	})
}

// =============================================================================
// Invalid documents
// =============================================================================

func (s *ParseSuite) TestInvalidDocuments() {
	s.Run("COLLECTION_2710 forbids transporter and worker", func() {
		b := validBsda()
		b.Type = bsda.TypeCollection2710

		issues := s.issues(sErr(validation.Parse(b, validation.Context{CurrentSignatureType: bsda.SignatureTransport})))
		s.Len(issues, 2)
		s.Equal("Impossible de saisir un transporteur pour un bordereau de collecte en déchetterie.", issues[0].Message)
		s.Equal("Impossible de saisir une entreprise de travaux pour un bordereau de collecte en déchetterie.", issues[1].Message)
	})

	s.Run("invalid emitter siret", func() {
		b := validBsda()
		b.EmitterCompanySiret = ptr("1")

		_, err := validation.Parse(b, validation.Context{CurrentSignatureType: bsda.SignatureTransport})
		s.ErrorContains(err, "1 n'est pas un numéro de SIRET valide")
	})

	s.Run("invalid transporter siret", func() {
		b := validBsda()
		b.Transporters[0].TransporterCompanySiret = ptr("1")

		_, err := validation.Parse(b, validation.Context{CurrentSignatureType: bsda.SignatureTransport})
		s.ErrorContains(err, "1 n'est pas un numéro de SIRET valide")
	})

	s.Run("siret failing the checksum", func() {
		b := validBsda()
		b.EmitterCompanySiret = ptr("11111111111111")

		_, err := validation.Parse(b, validation.Context{})
		s.ErrorContains(err, "11111111111111 n'est pas un numéro de SIRET valide")
	})

	s.Run("french VAT number on a transporter", func() {
		b := validBsda()
		b.Transporters[0].TransporterCompanySiret = nil
		b.Transporters[0].TransporterCompanyVatNumber = ptr("FR35552049447")

		_, err := validation.Parse(b, validation.Context{CurrentSignatureType: bsda.SignatureTransport})
		s.ErrorContains(err, "Impossible d'utiliser le numéro de TVA pour un établissement français, veuillez renseigner son SIRET uniquement")
	})

	s.Run("missing plates with ROAD mode", func() {
		for _, plates := range [][]string{nil, {}, {""}} {
			b := validBsda()
			b.Transporters[0].TransporterTransportMode = ptr(bsda.TransportModeRoad)
			b.Transporters[0].TransporterTransportPlates = plates

			issues := s.issues(sErr(validation.Parse(b, validation.Context{CurrentSignatureType: bsda.SignatureTransport})))
			s.Len(issues, 1)
			s.Equal("L'immatriculation du transporteur est obligatoire.", issues[0].Message)
		}
	})

	s.Run("missing plates tolerated before the transport stage", func() {
		b := validBsda()
		b.Transporters[0].TransporterTransportPlates = nil

		_, err := validation.Parse(b, validation.Context{})
		s.NoError(err)
	})

	s.Run("more than two plates", func() {
		b := validBsda()
		b.Transporters[0].TransporterTransportPlates = []string{"AA-001-AA", "BB-002-BB", "CC-003-CC"}

		_, err := validation.Parse(b, validation.Context{})
		s.ErrorContains(err, "Un maximum de 2 plaques d'immatriculation est accepté")
	})

	s.Run("grouping on a non GATHERING bordereau", func() {
		b := validBsda()
		b.Grouping = []domain.BsdaID{"BSDA-1"}

		_, err := validation.Parse(b, validation.Context{})
		s.ErrorContains(err, "Seul un bordereau de groupement peut regrouper d'autres bordereaux.")
	})
}

// =============================================================================
// Operation code / mode compatibility
// =============================================================================

func (s *ParseSuite) TestOperationModes() {
	s.Run("compatible pairs accepted at every stage", func() {
		cases := []struct {
			code string
			mode *bsda.OperationMode
		}{
			{"R 5", ptr(bsda.OperationModeReutilisation)},
			{"R 13", nil},
		}
		for _, sig := range []bsda.SignatureType{bsda.SignatureEmission, bsda.SignatureTransport} {
			for _, tc := range cases {
				b := validBsda()
				b.DestinationOperationCode = ptr(tc.code)
				b.DestinationOperationMode = tc.mode

				_, err := validation.Parse(b, validation.Context{CurrentSignatureType: sig})
				s.NoError(err, "code %s at stage %s", tc.code, sig)
			}
		}
	})

	s.Run("incompatible mode rejected", func() {
		for _, code := range []string{"R 5", "R 13"} {
			b := validBsda()
			b.DestinationOperationCode = ptr(code)
			b.DestinationOperationMode = ptr(bsda.OperationModeValorisationEnergetique)

			issues := s.issues(sErr(validation.Parse(b, validation.Context{CurrentSignatureType: bsda.SignatureTransport})))
			s.Len(issues, 1)
			s.Equal("Le mode de traitement n'est pas compatible avec l'opération de traitement choisie", issues[0].Message)
		}
	})

	s.Run("missing mode tolerated before the operation stage", func() {
		b := validBsda()
		b.DestinationOperationCode = ptr("R 5")
		b.DestinationOperationMode = nil

		_, err := validation.Parse(b, validation.Context{CurrentSignatureType: bsda.SignatureTransport})
		s.NoError(err)
	})

	s.Run("missing mode rejected at the operation stage", func() {
		b := validBsda()
		b.DestinationOperationCode = ptr("R 5")
		b.DestinationOperationMode = nil

		issues := s.issues(sErr(validation.Parse(b, validation.Context{CurrentSignatureType: bsda.SignatureOperation})))
		s.Len(issues, 1)
		s.Equal("Le mode de traitement est obligatoire.", issues[0].Message)
	})

	s.Run("unknown operation code is a shape error", func() {
		b := validBsda()
		b.DestinationOperationCode = ptr("X 99")

		_, err := validation.Parse(b, validation.Context{})
		var shapeErr *validation.ShapeError
		s.ErrorAs(err, &shapeErr)
	})
}

// sErr drops the parsed value so error-only assertions read naturally.
func sErr(_ bsda.Bsda, err error) error { return err }
