package bot

const helpText = `🍱 點餐機器人使用說明

══════════════════
📝 點餐相關
══════════════════

!order [餐別] [代墊人]
!點餐 [餐別] [代墊人]
► 批次點餐（每行：代號. 餐點）
► 代墊人可省略，預設15號
範例：
!order 午餐
2. 雞腿便當
3. 魚便當

!add [代號] [餐點]
!加點 [代號] [餐點]
► 快速新增單筆訂單
範例：!add 2 雞腿便當

!enter [日期] [餐別] [代號] [餐點] [代墊人]
!補登 [日期] [餐別] [代號] [餐點] [代墊人]
► 補登過去的訂單
範例：!enter 10/24 午餐 2 牛肉飯

══════════════════
💰 金額 / 結帳
══════════════════

!amount [日期] [餐別]
!金額 [日期] [餐別]
► 批次輸入金額（每行：代號. 金額）
範例：
!amount 午餐
2. 100
3. 85

!checkout [代號] [日期] [餐別]
!結清 [代號] [日期] [餐別]
► 結清欠款（日期/餐別可省略）
範例：
!結清 2 → 結清2號所有欠款
!結清 2 10/24 → 結清2號該日欠款
!結清 2 10/24 午餐 → 結清特定餐別

══════════════════
🔍 查詢相關
══════════════════

!bill [代號] 或直接輸入代號
!帳單 [代號]
► 查詢個人帳單與欠款
範例：!bill 2 或 2

!today
!今日 / !今天
► 查看今日所有訂單

!show [日期] [餐別]
!查詢 / !看單
► 查看指定日期餐別的訂單
範例：!show 10/24 午餐

!show payer [代號]
!代墊 [代號]
► 查詢代墊統計
範例：
!代墊 → 所有代墊人統計
!代墊 15 → 15號代墊明細

!show debt [代號]
!欠款 [代號]
► 查詢某人欠款明細
範例：!欠款 2

══════════════════
🍽️ 菜單相關
══════════════════

!menu [關鍵字]
!菜單 [關鍵字]
► 搜尋特定店家菜單
範例：!menu 米糕

!eat what [餐別]
!吃什麼 [餐別]
► 隨機推薦菜單
範例：!吃什麼 午餐

══════════════════
⚙️ 其他
══════════════════

!help / !說明 / !指令
► 顯示此說明

💡 小提示：
• 餐別可用：早餐/午餐/晚餐/飲料/點心
• 日期可用：10/24 或 2025/10/24
• 每晚 20:00 自動發送未付款提醒
`

// HandleHelp returns the command reference.
func (b *OrderBot) HandleHelp() string {
	return helpText
}
