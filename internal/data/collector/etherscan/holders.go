package etherscan

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/songzhibin97/tokenscope/internal/data"
	"github.com/songzhibin97/tokenscope/internal/models"
	"github.com/songzhibin97/tokenscope/internal/risk"
)

const (
	holderPageSize = 100
	topHolders     = 10
)

var hundred = decimal.NewFromInt(100)

type holderRow struct {
	Address  string `json:"TokenHolderAddress"`
	Quantity string `json:"TokenHolderQuantity"`
}

type contractCreation struct {
	ContractAddress string `json:"contractAddress"`
	ContractCreator string `json:"contractCreator"`
	TxHash          string `json:"txHash"`
}

type holder struct {
	address string
	balance decimal.Decimal
}

// FetchHolders builds the holder profile from the top holder page. Supply, holder count
// and creator balance are looked up separately and fall back locally on failure.
func (e *Explorer) FetchHolders(ctx context.Context, address string) (*models.HolderProfile, error) {
	var rows []holderRow
	err := e.get(ctx, map[string]string{
		"module":          "token",
		"action":          "tokenholderlist",
		"contractaddress": address,
		"page":            "1",
		"offset":          strconv.Itoa(holderPageSize),
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get holder list: %w", err)
	}

	if len(rows) == 0 {
		return nil, data.ErrNoHolders
	}

	holders := make([]holder, 0, len(rows))
	listed := decimal.Zero
	for _, row := range rows {
		balance, err := decimal.NewFromString(row.Quantity)
		if err != nil || balance.IsNegative() {
			return nil, fmt.Errorf("%w: holder balance %q", data.ErrUnexpectedResponse, row.Quantity)
		}
		holders = append(holders, holder{address: strings.ToLower(row.Address), balance: balance})
		listed = listed.Add(balance)
	}

	supply, err := e.tokenSupply(ctx, address)
	if err != nil || !supply.IsPositive() {
		supply = listed
	}
	if !supply.IsPositive() {
		return nil, fmt.Errorf("%w: zero token supply", data.ErrUnexpectedResponse)
	}

	count, err := e.holderCount(ctx, address)
	if err != nil || count < len(holders) {
		count = len(holders)
	}

	sort.SliceStable(holders, func(i, j int) bool {
		return holders[i].balance.GreaterThan(holders[j].balance)
	})

	top := decimal.Zero
	balances := make([]float64, 0, len(holders))
	for i, h := range holders {
		if i < topHolders {
			top = top.Add(h.balance)
		}
		balances = append(balances, h.balance.InexactFloat64())
	}

	creatorPct := 100.0
	if creatorBalance, err := e.creatorBalance(ctx, address, holders); err == nil {
		creatorPct = percentage(creatorBalance, supply)
	}

	return &models.HolderProfile{
		TotalHolders:           count,
		Top10HoldersPercentage: percentage(top, supply),
		CreatorPercentage:      creatorPct,
		DistributionScore:      risk.DistributionScore(balances),
	}, nil
}

func (e *Explorer) tokenSupply(ctx context.Context, address string) (decimal.Decimal, error) {
	var result string
	err := e.get(ctx, map[string]string{
		"module":          "stats",
		"action":          "tokensupply",
		"contractaddress": address,
	}, &result)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(result)
}

func (e *Explorer) holderCount(ctx context.Context, address string) (int, error) {
	var result string
	err := e.get(ctx, map[string]string{
		"module":          "token",
		"action":          "tokenholdercount",
		"contractaddress": address,
	}, &result)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(result)
}

// creatorBalance finds the deployer and its current balance, preferring the listed rows.
func (e *Explorer) creatorBalance(ctx context.Context, address string, holders []holder) (decimal.Decimal, error) {
	var creations []contractCreation
	err := e.get(ctx, map[string]string{
		"module":            "contract",
		"action":            "getcontractcreation",
		"contractaddresses": address,
	}, &creations)
	if err != nil {
		return decimal.Zero, err
	}
	if len(creations) == 0 || creations[0].ContractCreator == "" {
		return decimal.Zero, fmt.Errorf("%w: no contract creator", data.ErrUnexpectedResponse)
	}

	creator := strings.ToLower(creations[0].ContractCreator)
	for _, h := range holders {
		if h.address == creator {
			return h.balance, nil
		}
	}

	var result string
	err = e.get(ctx, map[string]string{
		"module":          "account",
		"action":          "tokenbalance",
		"contractaddress": address,
		"address":         creator,
		"tag":             "latest",
	}, &result)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(result)
}

func percentage(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 100
	}
	pct := part.Div(whole).Mul(hundred).InexactFloat64()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
