package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/showroom/internal/auth/domain"
	"github.com/smallbiznis/showroom/internal/csvimport"
	customerdomain "github.com/smallbiznis/showroom/internal/customer/domain"
	footfalldomain "github.com/smallbiznis/showroom/internal/footfall/domain"
	orderdomain "github.com/smallbiznis/showroom/internal/order/domain"
	productdomain "github.com/smallbiznis/showroom/internal/product/domain"
	sharelinkdomain "github.com/smallbiznis/showroom/internal/sharelink/domain"
	solddomain "github.com/smallbiznis/showroom/internal/sold/domain"
	videodomain "github.com/smallbiznis/showroom/internal/video/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFootfall struct {
	footfalldomain.Service

	list   func(filter footfalldomain.ListFilter) ([]footfalldomain.Record, error)
	imprt  func(req footfalldomain.ImportRequest) (csvimport.Summary, error)
	listed int
	saved  footfalldomain.SaveEntriesRequest
}

func (s *stubFootfall) SaveEntries(_ context.Context, req footfalldomain.SaveEntriesRequest) (footfalldomain.Record, error) {
	s.saved = req
	return footfalldomain.Record{UserID: req.UserID}, nil
}

func (s *stubFootfall) List(_ context.Context, filter footfalldomain.ListFilter) ([]footfalldomain.Record, error) {
	s.listed++
	if s.list == nil {
		return nil, nil
	}
	return s.list(filter)
}

func (s *stubFootfall) Import(_ context.Context, req footfalldomain.ImportRequest) (csvimport.Summary, error) {
	return s.imprt(req)
}

type stubProducts struct {
	productdomain.Service

	imprt func(req productdomain.ImportRequest) (productdomain.ImportResult, error)
}

func (s *stubProducts) Import(_ context.Context, req productdomain.ImportRequest) (productdomain.ImportResult, error) {
	return s.imprt(req)
}

type stubCustomers struct {
	customerdomain.Service

	create func(req customerdomain.CreateRequest) (customerdomain.Customer, error)
	list   func(filter customerdomain.ListFilter) ([]customerdomain.Customer, error)
}

func (s *stubCustomers) Create(_ context.Context, req customerdomain.CreateRequest) (customerdomain.Customer, error) {
	return s.create(req)
}

func (s *stubCustomers) List(_ context.Context, filter customerdomain.ListFilter) ([]customerdomain.Customer, error) {
	return s.list(filter)
}

type stubSold struct {
	solddomain.Service

	created solddomain.CreateRequest
}

func (s *stubSold) Create(_ context.Context, req solddomain.CreateRequest) (solddomain.Sale, error) {
	s.created = req
	return solddomain.Sale{FullName: req.FullName}, nil
}

func (s *stubSold) Receipt(_ context.Context, id string) ([]byte, error) {
	if id != "42" {
		return nil, solddomain.ErrNotFound
	}
	return []byte("%PDF-1.4 receipt"), nil
}

type stubVideos struct {
	videodomain.Service

	path string
}

func (s *stubVideos) Open(_ context.Context, id string) (videodomain.Video, *os.File, error) {
	if id != "7" {
		return videodomain.Video{}, nil, videodomain.ErrNotFound
	}
	f, err := os.Open(s.path)
	if err != nil {
		return videodomain.Video{}, nil, err
	}
	return videodomain.Video{VideoUpload: "uploads/videos/clip.mp4"}, f, nil
}

func (s *stubVideos) Search(_ context.Context, req videodomain.SearchRequest) ([]videodomain.Video, error) {
	if req.Term() == "" {
		return nil, videodomain.ErrEmptySearch
	}
	return nil, nil
}

type stubShareLinks struct {
	sharelinkdomain.Service

	generated sharelinkdomain.GenerateRequest
}

func (s *stubShareLinks) Generate(_ context.Context, req sharelinkdomain.GenerateRequest) (sharelinkdomain.Link, error) {
	s.generated = req
	return sharelinkdomain.Link{Token: "abc123"}, nil
}

type stubMaster[T any] struct {
	items []*T
}

func (s *stubMaster[T]) Create(_ context.Context, name string) (*T, error) {
	return nil, orderdomain.ErrDuplicateName
}

func (s *stubMaster[T]) List(context.Context) ([]*T, error) {
	return s.items, nil
}

func (s *stubMaster[T]) Delete(context.Context, string) error {
	return orderdomain.ErrNotFound
}

func TestRequireAuth(t *testing.T) {
	footfall := &stubFootfall{}
	ts := newTestServer(t, func(s *Server) { s.footfallSvc = footfall })

	rec := ts.do(jsonRequest(t, http.MethodGet, "/api/footfall/get", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec).Type)

	rec = ts.do(jsonRequest(t, http.MethodGet, "/api/footfall/get", nil), "forged")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(jsonRequest(t, http.MethodGet, "/api/footfall/get", nil), userToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, footfall.listed)
}

func TestSaveFootfallAcceptsDateOnlyTimestamp(t *testing.T) {
	footfall := &stubFootfall{}
	ts := newTestServer(t, func(s *Server) { s.footfallSvc = footfall })

	rec := ts.do(jsonRequest(t, http.MethodPost, "/api/footfall/save/U1", map[string]any{
		"foot_entry": []map[string]any{{"footfall": 4, "timestamp": "2025-01-01"}},
	}), userToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, footfall.saved.Entries, 1)
	require.NotNil(t, footfall.saved.Entries[0].Timestamp)
	assert.True(t, footfall.saved.Entries[0].Timestamp.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))

	rec = ts.do(jsonRequest(t, http.MethodPost, "/api/footfall/save/U1", map[string]any{
		"foot_entry": []map[string]any{{"footfall": 4, "timestamp": "someday"}},
	}), userToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "invalid_timestamp", payload.Errors[0].Code)
}

func TestImportRequiresActivePrivilegedRole(t *testing.T) {
	ts := newTestServer(t, func(s *Server) {
		s.footfallSvc = &stubFootfall{imprt: func(footfalldomain.ImportRequest) (csvimport.Summary, error) {
			t.Fatal("import must not run")
			return csvimport.Summary{}, nil
		}}
	})
	file := &upload{field: "file", name: "footfall.csv", content: "user_id,date\n"}

	rec := ts.do(multipartRequest(t, http.MethodPost, "/api/footfall/upload-csv", nil, file), userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(multipartRequest(t, http.MethodPost, "/api/footfall/upload-csv", nil, file), inactiveAdminToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "user account is inactive", decodeError(t, rec).Message)
}

func TestImportFootfallSpoolsAndCleansUp(t *testing.T) {
	var (
		tempName string
		content  string
		pc       string
	)
	ts := newTestServer(t, func(s *Server) {
		s.footfallSvc = &stubFootfall{imprt: func(req footfalldomain.ImportRequest) (csvimport.Summary, error) {
			named, ok := req.File.(interface{ Name() string })
			require.True(t, ok)
			tempName = named.Name()
			raw, err := io.ReadAll(req.File)
			require.NoError(t, err)
			content = string(raw)
			pc = req.DefaultPC
			return csvimport.Summary{
				TotalRows:     2,
				SkippedRows:   1,
				KeysProcessed: 1,
				Results:       []csvimport.KeyResult{{Key: "u1", Username: "alice", Imported: 1, Total: 3}},
			}, nil
		}}
	})

	csv := "user_id,username,date,footfall\nu1,alice,01/03/2025,4\n,,,\n"
	rec := ts.do(multipartRequest(t, http.MethodPost, "/api/footfall/upload-csv",
		map[string]string{"pc": " PC-2 "},
		&upload{field: "file", name: "Footfall.CSV", content: csv},
	), adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, csv, content)
	assert.Equal(t, "PC-2", pc)
	_, err := os.Stat(tempName)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var body struct {
		Message       string                `json:"message"`
		TotalRows     int                   `json:"totalRows"`
		SkippedRows   int                   `json:"skippedRows"`
		KeysProcessed int                   `json:"keysProcessed"`
		Results       []csvimport.KeyResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Message)
	assert.Equal(t, 2, body.TotalRows)
	assert.Equal(t, 1, body.SkippedRows)
	assert.Equal(t, 1, body.KeysProcessed)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "alice", body.Results[0].Username)
}

func TestImportRejectsBadUploads(t *testing.T) {
	ts := newTestServer(t, func(s *Server) {
		s.footfallSvc = &stubFootfall{}
	})

	rec := ts.do(multipartRequest(t, http.MethodPost, "/api/footfall/upload-csv", map[string]string{"pc": "x"}, nil), adminToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "no_file", payload.Errors[0].Code)

	rec = ts.do(multipartRequest(t, http.MethodPost, "/api/footfall/upload-csv", nil,
		&upload{field: "file", name: "footfall.xlsx", content: "x"},
	), adminToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload = decodeError(t, rec)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "invalid_file_type", payload.Errors[0].Code)
	assert.Equal(t, "file", payload.Errors[0].Field)
}

func TestImportStorageFailureNamesKey(t *testing.T) {
	ts := newTestServer(t, func(s *Server) {
		s.footfallSvc = &stubFootfall{imprt: func(footfalldomain.ImportRequest) (csvimport.Summary, error) {
			return csvimport.Summary{KeysProcessed: 1}, &csvimport.KeyError{Key: "u2", Err: errors.New("write failed")}
		}}
	})

	rec := ts.do(multipartRequest(t, http.MethodPost, "/api/footfall/upload-csv", nil,
		&upload{field: "file", name: "f.csv", content: "user_id\nu1\nu2\n"},
	), adminToken)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, "import_failed", payload.Type)
	assert.Contains(t, payload.Message, "u2")
}

func TestProductImportConflictWhileRunning(t *testing.T) {
	ts := newTestServer(t, func(s *Server) {
		s.productSvc = &stubProducts{imprt: func(productdomain.ImportRequest) (productdomain.ImportResult, error) {
			return productdomain.ImportResult{}, csvimport.ErrImportRunning
		}}
	})

	rec := ts.do(multipartRequest(t, http.MethodPost, "/api/products/upload-csv", nil,
		&upload{field: "file", name: "products.csv", content: "jewel_code\nA1\n"},
	), adminToken)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProductImportResponse(t *testing.T) {
	ts := newTestServer(t, func(s *Server) {
		s.productSvc = &stubProducts{imprt: func(productdomain.ImportRequest) (productdomain.ImportResult, error) {
			return productdomain.ImportResult{
				Summary:       csvimport.Summary{TotalRows: 3, KeysProcessed: 2},
				InsertedCount: 2,
			}, nil
		}}
	})

	rec := ts.do(multipartRequest(t, http.MethodPost, "/api/products/upload-csv", nil,
		&upload{field: "file", name: "products.csv", content: "jewel_code\nA1\n\nB2\n"},
	), adminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body["insertedCount"])
	assert.EqualValues(t, 3, body["totalRows"])
	assert.EqualValues(t, 2, body["keysProcessed"])
}

func TestLogin(t *testing.T) {
	var seen authdomain.LoginRequest
	auth := &stubAuth{login: func(req authdomain.LoginRequest) (*authdomain.LoginResult, error) {
		seen = req
		switch req.Password {
		case "right":
			return &authdomain.LoginResult{Token: "jwt", ExpiresAt: time.Now().Add(time.Hour)}, nil
		case "spam":
			return nil, authdomain.ErrTooManyAttempts
		default:
			return nil, authdomain.ErrInvalidCredentials
		}
	}}
	ts := newTestServer(t, func(s *Server) { s.authsvc = auth })

	rec := ts.do(jsonRequest(t, http.MethodPost, "/api/auth/login", gin.H{"username": " alice ", "password": "right"}), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "jwt", body.Token)
	assert.Equal(t, "alice", seen.Username)
	assert.NotEmpty(t, seen.ClientIP)

	rec = ts.do(jsonRequest(t, http.MethodPost, "/api/auth/login", gin.H{"username": "alice", "password": "wrong"}), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(jsonRequest(t, http.MethodPost, "/api/auth/login", gin.H{"username": "alice", "password": "spam"}), "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestCreateCustomerDiscardsUploadOnConflict(t *testing.T) {
	var seen customerdomain.CreateRequest
	ts := newTestServer(t, func(s *Server) {
		s.customerSvc = &stubCustomers{create: func(req customerdomain.CreateRequest) (customerdomain.Customer, error) {
			seen = req
			return customerdomain.Customer{}, customerdomain.ErrDuplicateMobile
		}}
	})

	rec := ts.do(multipartRequest(t, http.MethodPost, "/api/customers/save",
		map[string]string{
			"name":             "Asha",
			"mobile":           "9876543210",
			"productName":      "Ring",
			"price":            "12,500",
			"nextFollowUpDate": "2025-03-12",
			"salesperson":      "staff1",
		},
		&upload{field: "productImage", name: "ring.jpg", content: "jpeg"},
	), userToken)
	require.Equal(t, http.StatusConflict, rec.Code)

	assert.Equal(t, "uploads/customers/ring.jpg", seen.ProductImage)
	require.NotNil(t, seen.Price)
	assert.Equal(t, 12500.0, *seen.Price)
	require.NotNil(t, seen.NextFollowUpDate)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), *seen.NextFollowUpDate)
	assert.Equal(t, []string{"uploads/customers/ring.jpg"}, ts.uploads.removed)
}

func TestCreateCustomerRejectsUnparsablePrice(t *testing.T) {
	ts := newTestServer(t, func(s *Server) {
		s.customerSvc = &stubCustomers{create: func(customerdomain.CreateRequest) (customerdomain.Customer, error) {
			t.Fatal("create must not run")
			return customerdomain.Customer{}, nil
		}}
	})

	rec := ts.do(multipartRequest(t, http.MethodPost, "/api/customers/save",
		map[string]string{"price": "lots"},
		&upload{field: "productImage", name: "ring.jpg", content: "jpeg"},
	), userToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "price", payload.Errors[0].Field)
	assert.Empty(t, ts.uploads.saved)
}

func TestListCustomersEmptyIsNotFound(t *testing.T) {
	var seen customerdomain.ListFilter
	ts := newTestServer(t, func(s *Server) {
		s.customerSvc = &stubCustomers{list: func(filter customerdomain.ListFilter) ([]customerdomain.Customer, error) {
			seen = filter
			return nil, nil
		}}
	})

	rec := ts.do(jsonRequest(t, http.MethodGet, "/api/customers/get?status=Open&productName=ring", nil), userToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Open", seen.Status)
	assert.Equal(t, "ring", seen.ProductName)
}

func TestCreateSaleRecordsCaller(t *testing.T) {
	sold := &stubSold{}
	ts := newTestServer(t, func(s *Server) { s.soldSvc = sold })

	rec := ts.do(multipartRequest(t, http.MethodPost, "/api/sold/save",
		map[string]string{"full_name": "Ravi", "sales_staff": "someone-else", "amount": "1000"},
		&upload{field: "soldupload", name: "bill.png", content: "png"},
	), userToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, "staff1", sold.created.SalesStaff)
	assert.Equal(t, "uploads/sold/bill.png", sold.created.SoldUpload)
	require.NotNil(t, sold.created.Amount)
	assert.Equal(t, 1000.0, *sold.created.Amount)
}

func TestSaleReceiptIsPDF(t *testing.T) {
	ts := newTestServer(t, func(s *Server) { s.soldSvc = &stubSold{} })

	rec := ts.do(jsonRequest(t, http.MethodGet, "/api/sold/receipt/42", nil), userToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "receipt-42.pdf")
	assert.Equal(t, "%PDF-1.4 receipt", rec.Body.String())

	rec = ts.do(jsonRequest(t, http.MethodGet, "/api/sold/receipt/9", nil), userToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStreamVideoHonoursRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))
	ts := newTestServer(t, func(s *Server) { s.videoSvc = &stubVideos{path: path} })

	req := jsonRequest(t, http.MethodGet, "/api/videos/share-one/7", nil)
	req.Header.Set("Range", "bytes=2-5")
	rec := ts.do(req, "")
	require.Equal(t, http.StatusPartialContent, rec.Code)
	assert.Equal(t, "2345", rec.Body.String())
	assert.Equal(t, "bytes 2-5/10", rec.Header().Get("Content-Range"))

	rec = ts.do(jsonRequest(t, http.MethodGet, "/api/videos/share-one/8", nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchVideos(t *testing.T) {
	ts := newTestServer(t, func(s *Server) { s.videoSvc = &stubVideos{} })

	rec := ts.do(jsonRequest(t, http.MethodPost, "/api/videos/search", gin.H{}), "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "invalid_search_query", payload.Errors[0].Code)

	rec = ts.do(jsonRequest(t, http.MethodPost, "/api/videos/search", gin.H{"category": "rings"}), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParseTags(t *testing.T) {
	tags, err := parseTags(`[{"_id":"t1","name":"gold"},{"name":"bridal"}]`)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "gold", tags[0].Name)

	tags, err = parseTags(`["gold","bridal"]`)
	require.NoError(t, err)
	assert.Equal(t, []videodomain.Tag{{Name: "gold"}, {Name: "bridal"}}, tags)

	tags, err = parseTags("  ")
	require.NoError(t, err)
	assert.Nil(t, tags)

	_, err = parseTags("gold")
	assert.Error(t, err)
}

func TestGenerateShareLink(t *testing.T) {
	links := &stubShareLinks{}
	ts := newTestServer(t, func(s *Server) { s.shareLinkSvc = links })

	body := gin.H{"videoIds": []string{"1", "2"}, "expiryDate": "2025-03-20", "customerName": " Meera "}
	rec := ts.do(jsonRequest(t, http.MethodPost, "/api/videos/generate-shareable-link", body), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(jsonRequest(t, http.MethodPost, "/api/videos/generate-shareable-link", body), userToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "abc123", resp.Token)
	assert.Equal(t, []string{"1", "2"}, links.generated.VideoIDs)
	assert.Equal(t, "Meera", links.generated.CustomerName)
	require.NotNil(t, links.generated.ExpiryDate)
	assert.Equal(t, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), *links.generated.ExpiryDate)

	rec = ts.do(jsonRequest(t, http.MethodPost, "/api/videos/generate-shareable-link",
		gin.H{"videoIds": []string{"1"}, "expiryDate": "next week"},
	), userToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddFavoriteRequiresList(t *testing.T) {
	ts := newTestServer(t, func(s *Server) { s.shareLinkSvc = &stubShareLinks{} })

	rec := ts.do(jsonRequest(t, http.MethodPost, "/api/videos/favorite", gin.H{"token": "abc"}), "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "favoriteList", payload.Errors[0].Field)
}

func TestMasterDataGuards(t *testing.T) {
	ts := newTestServer(t, func(s *Server) {
		s.categories = &stubMaster[orderdomain.Category]{items: []*orderdomain.Category{{Name: "Ring"}}}
		s.salespersons = &stubMaster[orderdomain.Salesperson]{}
		s.statuses = &stubMaster[orderdomain.StatusOption]{}
		s.karigars = &stubMaster[orderdomain.Karigar]{}
	})

	rec := ts.do(jsonRequest(t, http.MethodGet, "/api/orders/category/get", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ring")

	rec = ts.do(jsonRequest(t, http.MethodGet, "/api/orders/salesperson/get", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(jsonRequest(t, http.MethodGet, "/api/orders/salesperson/get", nil), userToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(jsonRequest(t, http.MethodPost, "/api/orders/karigar/create", gin.H{"name": "Ramesh"}), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(jsonRequest(t, http.MethodPost, "/api/orders/karigar/create", gin.H{"name": "Ramesh"}), userToken)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(jsonRequest(t, http.MethodDelete, "/api/orders/status/123", nil), userToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
