package store

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT UNIQUE NOT NULL,
    username TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    image_path TEXT NOT NULL DEFAULT 'guest.png',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS cards (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    text TEXT NOT NULL,
    image_path TEXT NOT NULL,
    misfortune_index INTEGER UNIQUE NOT NULL CHECK (misfortune_index BETWEEN 1 AND 100)
);

CREATE TABLE IF NOT EXISTS games (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'in_progress',
    total_cards INTEGER NOT NULL DEFAULT 3,
    correct_guesses INTEGER NOT NULL DEFAULT 0,
    wrong_guesses INTEGER NOT NULL DEFAULT 0,
    round_card_id INTEGER,
    round_started_at INTEGER,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    completed_at DATETIME
);

CREATE TABLE IF NOT EXISTS game_cards (
    game_id INTEGER NOT NULL,
    card_id INTEGER NOT NULL,
    round_number INTEGER,
    won INTEGER NOT NULL DEFAULT 0,
    initial_card INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (game_id, card_id),
    FOREIGN KEY (game_id) REFERENCES games(id),
    FOREIGN KEY (card_id) REFERENCES cards(id)
);

CREATE INDEX IF NOT EXISTS idx_games_user_status ON games(user_id, status);
CREATE INDEX IF NOT EXISTS idx_game_cards_game_id ON game_cards(game_id);
`

// Fixed deck of 50 misfortune cards ranked 1-100. Misfortune indexes are
// unique so a revealed card always has exactly one correct position.
const seedCards = `
INSERT OR IGNORE INTO cards (id, text, image_path, misfortune_index) VALUES
    (1,  'You hit every green light but miss your exit anyway', 'cards/missed_exit.png', 2),
    (2,  'Your coffee is slightly too cold', 'cards/cold_coffee.png', 4),
    (3,  'The vending machine eats your last coin', 'cards/vending_machine.png', 6),
    (4,  'You wave back at someone waving at the person behind you', 'cards/awkward_wave.png', 8),
    (5,  'Your headphones are tangled beyond repair', 'cards/tangled_headphones.png', 10),
    (6,  'The lecture you skipped had a surprise attendance check', 'cards/attendance_check.png', 12),
    (7,  'You step in a puddle wearing your only dry socks', 'cards/wet_socks.png', 14),
    (8,  'Your umbrella flips inside out in front of a crowd', 'cards/broken_umbrella.png', 16),
    (9,  'The elevator closes right as you reach it', 'cards/missed_elevator.png', 18),
    (10, 'Your phone battery dies at 40 percent', 'cards/dead_battery.png', 20),
    (11, 'You have to listen to your own voice message', 'cards/voice_message.png', 22),
    (12, 'The printer jams five minutes before your thesis deadline', 'cards/printer_jam.png', 24),
    (13, 'You bite your tongue while chewing gum', 'cards/bitten_tongue.png', 26),
    (14, 'Your favorite show gets cancelled on a cliffhanger', 'cards/cancelled_show.png', 28),
    (15, 'You reply-all to the entire company', 'cards/reply_all.png', 30),
    (16, 'The Wi-Fi dies during your online exam', 'cards/wifi_down.png', 32),
    (17, 'You lock yourself out in pajamas', 'cards/locked_out.png', 34),
    (18, 'A bird targets your freshly washed car', 'cards/bird_car.png', 36),
    (19, 'Your ice cream scoop falls on the pavement', 'cards/dropped_icecream.png', 38),
    (20, 'You call your teacher mom in front of the class', 'cards/called_mom.png', 40),
    (21, 'Your suitcase is the last one on the belt, and it is open', 'cards/open_suitcase.png', 42),
    (22, 'You study the wrong chapter for the exam', 'cards/wrong_chapter.png', 44),
    (23, 'Your alarm does not ring on the day of your flight', 'cards/missed_alarm.png', 46),
    (24, 'You spill red wine on a white couch that is not yours', 'cards/red_wine.png', 48),
    (25, 'Your laptop updates itself during a presentation', 'cards/forced_update.png', 50),
    (26, 'You get a parking ticket while paying for parking', 'cards/parking_ticket.png', 52),
    (27, 'Your dentist hums while drilling', 'cards/dentist.png', 54),
    (28, 'You drop your phone on your face in bed', 'cards/phone_face.png', 56),
    (29, 'The group project partner disappears before the deadline', 'cards/ghost_partner.png', 58),
    (30, 'You accidentally like a photo from 2014', 'cards/old_photo_like.png', 60),
    (31, 'Your new tattoo has a typo', 'cards/tattoo_typo.png', 62),
    (32, 'You lose your wallet on the first day of vacation', 'cards/lost_wallet.png', 64),
    (33, 'Your car breaks down in the car wash', 'cards/car_wash.png', 66),
    (34, 'You fail the exam you were most confident about', 'cards/failed_exam.png', 68),
    (35, 'Your phone falls in the toilet', 'cards/phone_toilet.png', 70),
    (36, 'You get food poisoning at your own birthday dinner', 'cards/food_poisoning.png', 72),
    (37, 'Your flight is cancelled after you cleared security', 'cards/cancelled_flight.png', 74),
    (38, 'You break your leg the day before the ski trip', 'cards/broken_leg.png', 76),
    (39, 'Your landlord sells the apartment while you are on holiday', 'cards/evicted.png', 78),
    (40, 'You lose three years of photos with no backup', 'cards/lost_photos.png', 80),
    (41, 'Your identity gets stolen during tax season', 'cards/identity_theft.png', 82),
    (42, 'You are allergic to your new puppy', 'cards/puppy_allergy.png', 84),
    (43, 'Your wedding venue floods the night before', 'cards/flooded_venue.png', 86),
    (44, 'You get stuck in an elevator with your ex and their new partner', 'cards/elevator_ex.png', 88),
    (45, 'Your passport expires mid-journey abroad', 'cards/expired_passport.png', 90),
    (46, 'You lose your job and your apartment in the same week', 'cards/worst_week.png', 92),
    (47, 'Your house is burgled while you are at a funeral', 'cards/burglary.png', 94),
    (48, 'A sinkhole opens under your brand new car', 'cards/sinkhole.png', 96),
    (49, 'Lightning strikes your house twice in one storm', 'cards/lightning.png', 98),
    (50, 'Everything that can go wrong goes wrong, all at once', 'cards/murphy.png', 100);
`
