package fallback

// Reference tables the generator jitters on every call. Currency rates are
// quoted upstream-style (units per USD) and inverted like live data.

type currencyRow struct {
	code, name, symbol     string
	perUSD, change, pctChg float64
}

type cryptoRow struct {
	id, name, symbol string
	price, marketCap float64
	rank             int
}

type companyRow struct {
	symbol, name, sector string
	price, capBillions   float64
}

var currencyTable = []currencyRow{
	{"EUR", "Euro", "€", 0.85, 0.012, 1.43},
	{"GBP", "Pound Sterling", "£", 0.73, -0.008, -1.08},
	{"JPY", "Japanese Yen", "¥", 110.45, 1.23, 1.13},
	{"CHF", "Swiss Franc", "CHF", 0.91, 0.005, 0.55},
	{"CAD", "Canadian Dollar", "C$", 1.25, -0.015, -1.19},
	{"AUD", "Australian Dollar", "A$", 1.35, 0.018, 1.35},
	{"CNY", "Chinese Yuan", "¥", 6.45, 0.12, 1.89},
	{"INR", "Indian Rupee", "₹", 74.85, -0.45, -0.60},
	{"KRW", "South Korean Won", "₩", 1180.50, 15.30, 1.31},
	{"MXN", "Mexican Peso", "$", 17.25, -0.35, -1.99},
	{"BRL", "Brazilian Real", "R$", 5.15, 0.08, 1.58},
	{"RUB", "Russian Ruble", "₽", 75.20, -1.20, -1.57},
	{"SGD", "Singapore Dollar", "S$", 1.35, 0.02, 1.50},
	{"HKD", "Hong Kong Dollar", "HK$", 7.85, 0.05, 0.64},
	{"NOK", "Norwegian Krone", "kr", 8.65, -0.15, -1.71},
	{"SEK", "Swedish Krona", "kr", 9.25, 0.12, 1.31},
	{"DKK", "Danish Krone", "kr", 6.35, 0.08, 1.27},
	{"PLN", "Polish Zloty", "zł", 3.95, -0.05, -1.25},
	{"CZK", "Czech Koruna", "Kč", 21.85, 0.25, 1.16},
	{"HUF", "Hungarian Forint", "Ft", 295.50, -3.20, -1.07},
	{"TRY", "Turkish Lira", "₺", 8.45, -0.25, -2.87},
	{"ZAR", "South African Rand", "R", 14.85, 0.35, 2.41},
	{"THB", "Thai Baht", "฿", 32.15, 0.45, 1.42},
	{"MYR", "Malaysian Ringgit", "RM", 4.15, -0.08, -1.89},
	{"IDR", "Indonesian Rupiah", "Rp", 14250.00, 125.00, 0.88},
	{"PHP", "Philippine Peso", "₱", 50.25, -0.75, -1.47},
	{"VND", "Vietnamese Dong", "₫", 23150.00, 200.00, 0.87},
	{"EGP", "Egyptian Pound", "£", 15.75, 0.25, 1.61},
	{"AED", "UAE Dirham", "د.إ", 3.67, 0.02, 0.55},
	{"SAR", "Saudi Riyal", "﷼", 3.75, 0.01, 0.27},
	{"NZD", "New Zealand Dollar", "NZ$", 1.42, 0.015, 1.07},
	{"ILS", "Israeli Shekel", "₪", 3.25, -0.02, -0.61},
	{"TWD", "Taiwan Dollar", "NT$", 28.50, 0.35, 1.24},
	{"CLP", "Chilean Peso", "$", 785.50, -8.20, -1.03},
	{"COP", "Colombian Peso", "$", 3850.00, 45.00, 1.18},
	{"PEN", "Peruvian Sol", "S/", 3.65, -0.03, -0.82},
	{"ARS", "Argentine Peso", "$", 98.50, 2.15, 2.23},
	{"UYU", "Uruguayan Peso", "$U", 42.85, 0.25, 0.59},
	{"BOB", "Bolivian Boliviano", "Bs", 6.91, 0.01, 0.14},
	{"PYG", "Paraguayan Guarani", "₲", 6850.00, 25.00, 0.37},
	{"NGN", "Nigerian Naira", "₦", 415.50, -5.20, -1.24},
	{"KES", "Kenyan Shilling", "KSh", 108.75, 1.25, 1.16},
	{"GHS", "Ghanaian Cedi", "₵", 6.15, -0.08, -1.28},
	{"UGX", "Ugandan Shilling", "USh", 3650.00, 15.00, 0.41},
	{"TZS", "Tanzanian Shilling", "TSh", 2315.00, 8.50, 0.37},
	{"ETB", "Ethiopian Birr", "Br", 45.25, 0.35, 0.78},
	{"MAD", "Moroccan Dirham", "د.م.", 9.15, -0.05, -0.54},
	{"TND", "Tunisian Dinar", "د.ت", 2.85, 0.02, 0.71},
	{"BDT", "Bangladeshi Taka", "৳", 85.50, 0.45, 0.53},
	{"PKR", "Pakistani Rupee", "₨", 178.25, -1.85, -1.03},
	{"LKR", "Sri Lankan Rupee", "₨", 198.50, 2.25, 1.15},
	{"NPR", "Nepalese Rupee", "₨", 119.75, -0.85, -0.70},
	{"MMK", "Myanmar Kyat", "K", 1785.00, 25.00, 1.42},
	{"KHR", "Cambodian Riel", "៛", 4085.00, 15.00, 0.37},
	{"LAK", "Lao Kip", "₭", 10250.00, 85.00, 0.84},
}

var cryptoTable = []cryptoRow{
	{"bitcoin", "Bitcoin", "BTC", 43250.00, 847.5e9, 1},
	{"ethereum", "Ethereum", "ETH", 2640.75, 317.2e9, 2},
	{"binancecoin", "BNB", "BNB", 315.80, 47.8e9, 3},
	{"solana", "Solana", "SOL", 98.45, 42.5e9, 4},
	{"cardano", "Cardano", "ADA", 0.485, 17.2e9, 5},
	{"avalanche", "Avalanche", "AVAX", 35.20, 13.5e9, 6},
	{"chainlink", "Chainlink", "LINK", 14.85, 8.2e9, 7},
	{"polygon", "Polygon", "MATIC", 0.85, 7.8e9, 8},
	{"litecoin", "Litecoin", "LTC", 72.50, 5.4e9, 9},
	{"uniswap", "Uniswap", "UNI", 6.25, 4.7e9, 10},
	{"algorand", "Algorand", "ALGO", 0.18, 1.4e9, 11},
	{"cosmos", "Cosmos", "ATOM", 9.85, 3.8e9, 12},
	{"stellar", "Stellar", "XLM", 0.12, 3.2e9, 13},
	{"vechain", "VeChain", "VET", 0.025, 1.8e9, 14},
	{"filecoin", "Filecoin", "FIL", 5.45, 2.4e9, 15},
	{"tron", "TRON", "TRX", 0.065, 5.8e9, 16},
	{"monero", "Monero", "XMR", 158.20, 2.9e9, 17},
	{"eos", "EOS", "EOS", 0.85, 850e6, 18},
	{"aave", "Aave", "AAVE", 95.50, 1.4e9, 19},
	{"maker", "Maker", "MKR", 1250.00, 1.2e9, 20},
	{"compound", "Compound", "COMP", 45.20, 280e6, 21},
	{"sushiswap", "SushiSwap", "SUSHI", 1.25, 160e6, 22},
	{"yearn-finance", "Yearn Finance", "YFI", 8500.00, 310e6, 23},
	{"curve-dao-token", "Curve DAO Token", "CRV", 0.45, 180e6, 24},
	{"1inch", "1inch Network", "1INCH", 0.35, 350e6, 25},
	{"pancakeswap-token", "PancakeSwap", "CAKE", 2.15, 680e6, 26},
	{"thorchain", "THORChain", "RUNE", 3.85, 1.2e9, 27},
	{"terra-luna", "Terra Luna Classic", "LUNC", 0.00012, 750e6, 28},
	{"fantom", "Fantom", "FTM", 0.25, 680e6, 29},
	{"harmony", "Harmony", "ONE", 0.015, 200e6, 30},
	{"zilliqa", "Zilliqa", "ZIL", 0.025, 320e6, 31},
	{"enjin-coin", "Enjin Coin", "ENJ", 0.18, 180e6, 32},
	{"basic-attention-token", "Basic Attention Token", "BAT", 0.22, 330e6, 33},
	{"decentraland", "Decentraland", "MANA", 0.38, 700e6, 34},
	{"the-sandbox", "The Sandbox", "SAND", 0.32, 720e6, 35},
	{"axie-infinity", "Axie Infinity", "AXS", 6.85, 420e6, 36},
	{"gala", "Gala", "GALA", 0.025, 180e6, 37},
	{"flow", "Flow", "FLOW", 0.85, 890e6, 38},
	{"immutable-x", "Immutable X", "IMX", 0.95, 150e6, 39},
	{"loopring", "Loopring", "LRC", 0.18, 220e6, 40},
	{"matic-network", "Polygon", "MATIC", 0.85, 7.8e9, 41},
	{"render-token", "Render Token", "RNDR", 2.45, 950e6, 42},
	{"theta-token", "Theta Network", "THETA", 0.95, 950e6, 43},
	{"helium", "Helium", "HNT", 1.85, 280e6, 44},
	{"internet-computer", "Internet Computer", "ICP", 4.25, 1.95e9, 45},
	{"near", "NEAR Protocol", "NEAR", 1.85, 1.85e9, 46},
	{"apecoin", "ApeCoin", "APE", 1.15, 420e6, 47},
	{"optimism", "Optimism", "OP", 1.95, 1.95e9, 48},
	{"arbitrum", "Arbitrum", "ARB", 0.85, 2.85e9, 49},
	{"starknet", "Starknet", "STRK", 0.65, 520e6, 50},
}

var companyTable = []companyRow{
	{"AAPL", "Apple Inc.", "Technology", 175, 2750},
	{"MSFT", "Microsoft Corporation", "Technology", 385, 2850},
	{"GOOGL", "Alphabet Inc.", "Technology", 142, 1780},
	{"AMZN", "Amazon.com Inc.", "Consumer Discretionary", 145, 1520},
	{"TSLA", "Tesla Inc.", "Consumer Discretionary", 248, 790},
	{"NVDA", "NVIDIA Corporation", "Technology", 485, 1200},
	{"META", "Meta Platforms Inc.", "Technology", 325, 820},
	{"BRK.B", "Berkshire Hathaway Inc.", "Financial Services", 350, 780},
	{"JNJ", "Johnson & Johnson", "Healthcare", 160, 420},
	{"V", "Visa Inc.", "Financial Services", 245, 520},
	{"WMT", "Walmart Inc.", "Consumer Staples", 155, 420},
	{"JPM", "JPMorgan Chase & Co.", "Financial Services", 145, 425},
	{"MA", "Mastercard Incorporated", "Financial Services", 385, 375},
	{"PG", "Procter & Gamble Company", "Consumer Staples", 155, 365},
	{"UNH", "UnitedHealth Group Inc.", "Healthcare", 485, 450},
	{"HD", "Home Depot Inc.", "Consumer Discretionary", 325, 340},
	{"BAC", "Bank of America Corp", "Financial Services", 32, 265},
	{"ABBV", "AbbVie Inc.", "Healthcare", 145, 255},
	{"AVGO", "Broadcom Inc.", "Technology", 885, 365},
	{"XOM", "Exxon Mobil Corporation", "Energy", 105, 445},
	{"KO", "Coca-Cola Company", "Consumer Staples", 58, 250},
	{"CVX", "Chevron Corporation", "Energy", 155, 295},
	{"LLY", "Eli Lilly and Company", "Healthcare", 485, 465},
	{"PFE", "Pfizer Inc.", "Healthcare", 28, 160},
	{"TMO", "Thermo Fisher Scientific Inc.", "Healthcare", 525, 205},
	{"COST", "Costco Wholesale Corporation", "Consumer Staples", 685, 305},
	{"ADBE", "Adobe Inc.", "Technology", 485, 225},
	{"ABT", "Abbott Laboratories", "Healthcare", 105, 185},
	{"CRM", "Salesforce Inc.", "Technology", 245, 240},
	{"NFLX", "Netflix Inc.", "Communication Services", 425, 185},
	{"ORCL", "Oracle Corporation", "Technology", 105, 285},
	{"INTC", "Intel Corporation", "Technology", 45, 185},
	{"NKE", "Nike Inc.", "Consumer Discretionary", 105, 165},
	{"VZ", "Verizon Communications Inc.", "Communication Services", 38, 160},
	{"CMCSA", "Comcast Corporation", "Communication Services", 42, 185},
	{"DIS", "Walt Disney Company", "Communication Services", 95, 175},
	{"AMD", "Advanced Micro Devices", "Technology", 105, 170},
	{"PYPL", "PayPal Holdings Inc.", "Financial Services", 65, 75},
	{"QCOM", "Qualcomm Incorporated", "Technology", 125, 140},
	{"TXN", "Texas Instruments Inc.", "Technology", 165, 150},
	{"HON", "Honeywell International Inc.", "Industrials", 195, 135},
	{"UPS", "United Parcel Service Inc.", "Industrials", 165, 145},
	{"LOW", "Lowe's Companies Inc.", "Consumer Discretionary", 205, 140},
	{"IBM", "International Business Machines", "Technology", 135, 125},
	{"CAT", "Caterpillar Inc.", "Industrials", 245, 130},
	{"GS", "Goldman Sachs Group Inc.", "Financial Services", 325, 115},
	{"MS", "Morgan Stanley", "Financial Services", 85, 145},
	{"AMGN", "Amgen Inc.", "Healthcare", 265, 145},
	{"GILD", "Gilead Sciences Inc.", "Healthcare", 75, 95},
	{"SBUX", "Starbucks Corporation", "Consumer Discretionary", 95, 110},
}

type newsRow struct {
	title, summary, source, category string
	ageHours                         int
}

var newsTable = []newsRow{
	{"Federal Reserve Maintains Interest Rates Amid Economic Uncertainty",
		"The Federal Reserve decided to keep interest rates unchanged as policymakers assess the impact of recent economic data on inflation and employment.",
		"Reuters", "Central Banking", 2},
	{"Bitcoin Reaches New Monthly High as Institutional Interest Grows",
		"Bitcoin surged to its highest level this month following increased institutional adoption and positive regulatory developments.",
		"CoinDesk", "Cryptocurrency", 4},
	{"Tech Stocks Lead Market Rally on AI Investment Optimism",
		"Technology stocks posted significant gains as investors remain optimistic about artificial intelligence investments and their potential returns.",
		"Bloomberg", "Technology", 6},
	{"Dollar Strengthens Against Major Currencies on Economic Data",
		"The US dollar gained ground against major trading partners following stronger-than-expected economic indicators.",
		"Financial Times", "Foreign Exchange", 8},
	{"Energy Sector Volatility Continues Amid Supply Chain Concerns",
		"Energy companies face continued volatility as global supply chain disruptions impact production and distribution.",
		"Wall Street Journal", "Energy", 10},
	{"Emerging Markets Show Resilience Despite Global Headwinds",
		"Several emerging market economies demonstrate strong fundamentals and growth potential amid challenging global conditions.",
		"MarketWatch", "Emerging Markets", 12},
	{"Cryptocurrency Regulation Framework Takes Shape in Major Economies",
		"Regulatory clarity emerges as governments worldwide develop comprehensive frameworks for digital asset oversight.",
		"CoinTelegraph", "Cryptocurrency", 14},
	{"Global Supply Chain Disruptions Impact Manufacturing Sector",
		"Manufacturing companies worldwide report continued challenges from supply chain bottlenecks and logistics constraints.",
		"Industrial Weekly", "Manufacturing", 16},
}

// CurrencyInfo returns display name and symbol for an ISO code in the tracked set.
func CurrencyInfo(code string) (name, symbol string, ok bool) {
	for _, c := range currencyTable {
		if c.code == code {
			return c.name, c.symbol, true
		}
	}
	return "", "", false
}

// TrackedCurrencies lists the ISO codes the dashboard shows, in display order.
func TrackedCurrencies() []string {
	out := make([]string, len(currencyTable))
	for i, c := range currencyTable {
		out[i] = c.code
	}
	return out
}
