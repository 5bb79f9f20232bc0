//go:build integration
// +build integration

package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tocpharma/packing-be/internal/adapters/db"
	"github.com/tocpharma/packing-be/internal/core/domain"
	"github.com/tocpharma/packing-be/internal/core/ports"
	"github.com/tocpharma/packing-be/test/helpers"
)

type PackingRepositorySuite struct {
	suite.Suite
	testDB *helpers.TestDB
	repo   ports.PackingRepository
	ctx    context.Context
}

func (s *PackingRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.repo = db.NewPackingRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *PackingRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *PackingRepositorySuite) TestFindInvoice() {
	inv := helpers.CreateTestInvoice()
	helpers.SeedTestInvoice(s.T(), s.testDB.PgxPool, inv)

	found, err := s.repo.FindInvoice(s.ctx, inv.DocNo)
	s.NoError(err)
	s.Equal(inv.DocNo, found.DocNo)
	s.Equal(domain.TransFlagShipment, found.TransFlag)
	s.Require().NotNil(found.Customer)
	s.Equal(inv.Customer.Name, found.Customer.Name)
	s.Require().Len(found.Lines, 1)
	s.Equal("MED-001", found.Lines[0].ItemCode)
	s.True(found.Lines[0].RequiresSerial)
	s.True(found.Lines[0].Qty.Equal(inv.Lines[0].Qty))
}

func (s *PackingRepositorySuite) TestFindInvoice_NotFound() {
	_, err := s.repo.FindInvoice(s.ctx, "IV-MISSING")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PackingRepositorySuite) TestInsertSerials_StampsInvoiceMetadata() {
	inv := helpers.CreateTestInvoice()
	helpers.SeedTestInvoice(s.T(), s.testDB.PgxPool, inv)

	scans := []ports.SerialScan{
		{ItemCode: "MED-001", SerialNumber: "SN-0001", DocLineNumber: 1},
		{ItemCode: "MED-001", SerialNumber: "SN-0002", DocLineNumber: 1},
	}
	err := s.repo.InsertSerials(s.ctx, inv, scans, false)
	s.NoError(err)

	serials, err := s.repo.FindSerials(s.ctx, inv.DocNo)
	s.NoError(err)
	s.Require().Len(serials, 2)
	for _, serial := range serials {
		s.Equal(inv.CustCode, serial.CustCode)
		s.Equal(inv.DocTime, serial.DocTime)
		s.True(inv.DocDate.Equal(serial.DocDate))
	}
	s.Equal("SN-0001", serials[0].SerialNumber)
	s.Equal("SN-0002", serials[1].SerialNumber)
}

func (s *PackingRepositorySuite) TestInsertSerials_DuplicateRejection() {
	inv := helpers.CreateTestInvoice()
	helpers.SeedTestInvoice(s.T(), s.testDB.PgxPool, inv)

	first := []ports.SerialScan{{ItemCode: "MED-001", SerialNumber: "SN-0001", DocLineNumber: 1}}
	s.NoError(s.repo.InsertSerials(s.ctx, inv, first, true))

	// Same serial again: batch rejected, nothing appended.
	again := []ports.SerialScan{
		{ItemCode: "MED-001", SerialNumber: "SN-0002", DocLineNumber: 1},
		{ItemCode: "MED-001", SerialNumber: "SN-0001", DocLineNumber: 1},
	}
	err := s.repo.InsertSerials(s.ctx, inv, again, true)
	var dupErr *domain.DuplicateSerialError
	s.ErrorAs(err, &dupErr)
	s.Equal("SN-0001", dupErr.SerialNumber)

	serials, err := s.repo.FindSerials(s.ctx, inv.DocNo)
	s.NoError(err)
	s.Len(serials, 1)

	// With rejection off the same batch is appended as-is.
	s.NoError(s.repo.InsertSerials(s.ctx, inv, again, false))
	serials, err = s.repo.FindSerials(s.ctx, inv.DocNo)
	s.NoError(err)
	s.Len(serials, 3)
}

func (s *PackingRepositorySuite) TestListInvoices_Filters() {
	older := helpers.CreateTestInvoice(func(inv *domain.Invoice) {
		inv.DocNo = "IV6805-00001"
		inv.DocDate = inv.DocDate.AddDate(0, -1, 0)
	})
	newer := helpers.CreateTestInvoice()
	helpers.SeedTestInvoice(s.T(), s.testDB.PgxPool, older)
	helpers.SeedTestInvoice(s.T(), s.testDB.PgxPool, newer)

	all, err := s.repo.ListInvoices(s.ctx, ports.ListFilter{})
	s.NoError(err)
	s.Require().Len(all, 2)
	s.Equal(newer.DocNo, all[0].DocNo, "newest doc_date first")

	bySubstring, err := s.repo.ListInvoices(s.ctx, ports.ListFilter{DocNoContains: "6805"})
	s.NoError(err)
	s.Require().Len(bySubstring, 1)
	s.Equal(older.DocNo, bySubstring[0].DocNo)

	from := newer.DocDate.AddDate(0, 0, -1)
	byDate, err := s.repo.ListInvoices(s.ctx, ports.ListFilter{DateFrom: &from})
	s.NoError(err)
	s.Require().Len(byDate, 1)
	s.Equal(newer.DocNo, byDate[0].DocNo)
}

func (s *PackingRepositorySuite) TestFindSerialsForInvoices_Empty() {
	byDoc, err := s.repo.FindSerialsForInvoices(s.ctx, nil)
	s.NoError(err)
	s.Empty(byDoc)
}

func TestPackingRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(PackingRepositorySuite))
}
