package blockchain

// Demo records served in place of contract reads.

const (
	fixtureCompanyAddress  = "0xabcdef1234567890"
	fixtureCustomerAddress = "0x1234567890abcdef"
	fixtureSecondCustomer  = "0xfedcba0987654321"
)

func fixtureWarranty(owner, tokenID string) WarrantyNFT {
	return WarrantyNFT{
		ID:              "w1",
		ProductName:     "Smartphone X1",
		CompanyAddress:  fixtureCompanyAddress,
		CustomerAddress: owner,
		PurchaseDate:    "2024-01-15",
		ExpiryDate:      "2027-01-15",
		Status:          NFTActive,
		TokenID:         tokenID,
		Coverage:        "3 Years - Parts & Labor",
		Metadata: NFTMetadata{
			SerialNumber: "SN001234",
			Model:        "X1-Pro",
			WarrantyType: "Premium",
		},
	}
}

func fixtureCompanyProfile(address string) CompanyProfile {
	return CompanyProfile{
		Address:          address,
		Name:             "TechCorp Inc.",
		Verified:         true,
		VerificationDate: "2023-02-15",
		Documents:        []string{"Business License", "Tax Certificate", "Insurance Policy"},
	}
}

func fixtureServiceRequests() []ServiceRequest {
	return []ServiceRequest{{
		ID:              "sr1",
		CustomerAddress: fixtureCustomerAddress,
		WarrantyTokenID: "NFT#001",
		Issue:           "Screen not responding to touch",
		RequestDate:     "2024-02-01",
		Status:          RequestInProgress,
		Priority:        PriorityHigh,
	}, {
		ID:              "sr2",
		CustomerAddress: fixtureSecondCustomer,
		WarrantyTokenID: "NFT#002",
		Issue:           "Battery not charging",
		RequestDate:     "2024-01-28",
		Status:          RequestPending,
		Priority:        PriorityMedium,
	}}
}

// fixtureTokenCount is how many token ids the demo data already uses.
const fixtureTokenCount = 3
