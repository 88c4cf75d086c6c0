package validation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/petersg83/trackdechets/internal/bsda"
	"github.com/petersg83/trackdechets/internal/bsda/validation"
	"github.com/petersg83/trackdechets/internal/bsda/validation/ports"
	"github.com/petersg83/trackdechets/internal/registry"
)

// =============================================================================
// Completion Transformer Test Suite
// =============================================================================

type TransformersSuite struct {
	suite.Suite
	registry  *registry.MockClient
	validator *validation.Validator
}

func TestTransformersSuite(t *testing.T) {
	suite.Run(t, new(TransformersSuite))
}

func (s *TransformersSuite) SetupTest() {
	s.registry = defaultRegistry()

	var err error
	s.validator, err = validation.New(s.registry, emptyFinder(), nil, nil)
	s.Require().NoError(err)
}

func (s *TransformersSuite) parse(b bsda.Bsda, vctx validation.Context) (bsda.Bsda, error) {
	vctx.EnableCompletionTransformers = true
	return s.validator.ParseAsync(context.Background(), b, vctx)
}

// =============================================================================
// Récépissé completion
// =============================================================================

func (s *TransformersSuite) TestCompleteRecepisse() {
	s.Run("overwrites submitted fields with the on-file receipt", func() {
		b := validBsda()
		t := &b.Transporters[0]
		t.TransporterRecepisseNumber = ptr("STALE-NUMBER")
		t.TransporterRecepisseDepartment = ptr("13")
		t.TransporterRecepisseValidityLimit = ptr(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

		parsed, err := s.parse(b, validation.Context{CurrentSignatureType: bsda.SignatureTransport})
		s.Require().NoError(err)

		got := parsed.Transporters[0]
		s.Equal("RECEPISSE-01", *got.TransporterRecepisseNumber)
		s.Equal("75", *got.TransporterRecepisseDepartment)
		s.Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), *got.TransporterRecepisseValidityLimit)
	})

	s.Run("fills null fields from the on-file receipt", func() {
		b := validBsda()
		t := &b.Transporters[0]
		t.TransporterRecepisseNumber = nil
		t.TransporterRecepisseDepartment = nil
		t.TransporterRecepisseValidityLimit = nil

		parsed, err := s.parse(b, validation.Context{CurrentSignatureType: bsda.SignatureTransport})
		s.Require().NoError(err)

		got := parsed.Transporters[0]
		s.Equal("RECEPISSE-01", *got.TransporterRecepisseNumber)
		s.Equal("75", *got.TransporterRecepisseDepartment)
	})

	s.Run("clears submitted fields when the company has no on-file receipt", func() {
		b := validBsda()
		t := &b.Transporters[0]
		t.TransporterCompanySiret = ptr(transporter2Siret)
		t.TransporterRecepisseNumber = ptr("STALE-NUMBER")
		t.TransporterRecepisseDepartment = ptr("13")
		t.TransporterRecepisseValidityLimit = ptr(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

		parsed, err := s.parse(b, validation.Context{})
		s.Require().NoError(err)

		got := parsed.Transporters[0]
		s.Nil(got.TransporterRecepisseNumber)
		s.Nil(got.TransporterRecepisseDepartment)
		s.Nil(got.TransporterRecepisseValidityLimit)
	})

	s.Run("clears fields for a foreign transporter", func() {
		s.registry.Add(&ports.CompanyInfo{
			OrgID:     foreignVat,
			VatNumber: foreignVat,
			Name:      "Transporteur BE",
			Profiles:  []ports.CompanyProfile{ports.ProfileTransporter},
		})
		b := validBsda()
		t := &b.Transporters[0]
		t.TransporterCompanySiret = nil
		t.TransporterCompanyVatNumber = ptr(foreignVat)
		t.TransporterRecepisseNumber = ptr("STALE-NUMBER")

		parsed, err := s.parse(b, validation.Context{})
		s.Require().NoError(err)
		s.Nil(parsed.Transporters[0].TransporterRecepisseNumber)
	})

	s.Run("leaves an exempted transporter untouched", func() {
		b := validBsda()
		t := &b.Transporters[0]
		t.TransporterCompanySiret = ptr(transporter2Siret)
		t.TransporterRecepisseIsExempted = ptr(true)
		t.TransporterRecepisseNumber = ptr("MANUAL-NUMBER")

		parsed, err := s.parse(b, validation.Context{})
		s.Require().NoError(err)
		s.Equal("MANUAL-NUMBER", *parsed.Transporters[0].TransporterRecepisseNumber)
	})

	s.Run("leaves a signed transporter untouched", func() {
		b := validBsda()
		t := &b.Transporters[0]
		t.TransporterRecepisseNumber = ptr("SIGNED-NUMBER")
		t.TransporterTransportSignatureAuthor = ptr("Luc Transport")
		t.TransporterTransportSignatureDate = ptr(time.Now())

		parsed, err := s.parse(b, validation.Context{})
		s.Require().NoError(err)
		s.Equal("SIGNED-NUMBER", *parsed.Transporters[0].TransporterRecepisseNumber)
	})
}

// =============================================================================
// Worker certification clearing
// =============================================================================

func (s *TransformersSuite) TestClearWorkerCertification() {
	s.Run("disabled worker loses its certification sub-section", func() {
		b := validBsda()
		b.WorkerIsDisabled = true
		b.WorkerCompanyName = nil
		b.WorkerCompanySiret = nil
		b.WorkerCertificationHasSubSectionFour = true
		b.WorkerCertificationHasSubSectionThree = true
		b.WorkerCertificationCertificationNumber = ptr("CERT-1")
		b.WorkerCertificationOrganisation = ptr("AFNOR Certification")

		parsed, err := s.parse(b, validation.Context{})
		s.Require().NoError(err)
		s.False(parsed.WorkerCertificationHasSubSectionFour)
		s.False(parsed.WorkerCertificationHasSubSectionThree)
		s.Nil(parsed.WorkerCertificationCertificationNumber)
		s.Nil(parsed.WorkerCertificationOrganisation)
	})

	s.Run("enabled worker keeps it", func() {
		b := validBsda()
		b.WorkerCertificationHasSubSectionThree = true
		b.WorkerCertificationCertificationNumber = ptr("CERT-1")

		parsed, err := s.parse(b, validation.Context{})
		s.Require().NoError(err)
		s.True(parsed.WorkerCertificationHasSubSectionThree)
		s.Equal("CERT-1", *parsed.WorkerCertificationCertificationNumber)
	})
}

// =============================================================================
// Sirenify
// =============================================================================

func (s *TransformersSuite) TestSirenify() {
	s.Run("overwrites names and addresses with registry data", func() {
		b := validBsda()
		b.BrokerCompanyName = ptr("N'importe")
		b.BrokerCompanySiret = ptr(brokerSiret)
		b.Intermediaries = []bsda.IntermediaryCompany{{
			Siret: ptr(producerSiret),
			Name:  ptr("N'importe"),
		}}

		parsed, err := s.parse(b, validation.Context{})
		s.Require().NoError(err)

		s.Equal("Entreprise "+emitterSiret, *parsed.EmitterCompanyName)
		s.Equal("Adresse "+emitterSiret, *parsed.EmitterCompanyAddress)
		s.Equal("Entreprise "+workerSiret, *parsed.WorkerCompanyName)
		s.Equal("Entreprise "+destinationSiret, *parsed.DestinationCompanyName)
		s.Equal("Entreprise "+brokerSiret, *parsed.BrokerCompanyName)
		s.Equal("Entreprise "+transporterSiret, *parsed.Transporters[0].TransporterCompanyName)
		s.Equal("Entreprise "+producerSiret, *parsed.Intermediaries[0].Name)
	})

	s.Run("skips roles sealed by the emission signature", func() {
		b := validBsda()
		b.Status = bsda.StatusSignedByProducer
		b.EmitterEmissionSignatureAuthor = ptr("Jean Émetteur")
		b.EmitterEmissionSignatureDate = ptr(time.Now())
		b.BrokerCompanyName = ptr("Courtier saisi")
		b.BrokerCompanySiret = ptr(brokerSiret)
		b.Intermediaries = []bsda.IntermediaryCompany{{
			Siret: ptr(producerSiret),
			Name:  ptr("Intermédiaire saisi"),
		}}

		parsed, err := s.parse(b, validation.Context{})
		s.Require().NoError(err)

		// Sealed at emission.
		s.Equal("Émetteur SA", *parsed.EmitterCompanyName)
		s.Equal("Travaux SARL", *parsed.WorkerCompanyName)
		s.Equal("Exutoire SA", *parsed.DestinationCompanyName)

		// Sealed later, or never.
		s.Equal("Entreprise "+brokerSiret, *parsed.BrokerCompanyName)
		s.Equal("Entreprise "+transporterSiret, *parsed.Transporters[0].TransporterCompanyName)
		s.Equal("Entreprise "+producerSiret, *parsed.Intermediaries[0].Name)
	})

	s.Run("skips a signed transporter", func() {
		b := validBsda()
		t := &b.Transporters[0]
		t.TransporterCompanyName = ptr("Nom au moment de la signature")
		t.TransporterTransportSignatureAuthor = ptr("Luc Transport")
		t.TransporterTransportSignatureDate = ptr(time.Now())

		parsed, err := s.parse(b, validation.Context{})
		s.Require().NoError(err)
		s.Equal("Nom au moment de la signature", *parsed.Transporters[0].TransporterCompanyName)
	})
}
